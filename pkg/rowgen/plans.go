package rowgen

import (
	"fmt"

	"github.com/TFMV/dsgen/pkg/schema"
)

var builtinPlans = map[string]func() Plan{
	schema.HouseholdDemographics: householdDemographicsPlan,
	schema.IncomeBand:            incomeBandPlan,
	schema.Promotion:             promotionPlan,
	schema.Reason:                reasonPlan,
	schema.ShipMode:              shipModePlan,
	schema.Warehouse:             warehousePlan,
}

// PlanFor returns the built-in plan of a table.
func PlanFor(table string) (Plan, error) {
	build, ok := builtinPlans[table]
	if !ok {
		return nil, fmt.Errorf("%w: no plan for %s", schema.ErrUnknownTable, table)
	}
	return build(), nil
}

func householdDemographicsPlan() Plan {
	return Plan{
		{"hd_demo_sk", SurrogateKey{}},
		{"hd_income_band_sk", ForeignKey{Table: schema.IncomeBand}},
		{"hd_buy_potential", Pick{Values: buyPotentials}},
		{"hd_dep_count", UniformInt{Min: 0, Max: 9}},
		{"hd_vehicle_count", UniformInt{Min: -1, Max: 4}},
	}
}

func incomeBandPlan() Plan {
	return Plan{
		{"ib_income_band_sk", SurrogateKey{}},
		{"ib_lower_bound", Bounds{Step: 10000}},
		{"ib_upper_bound", Bounds{Step: 10000, Upper: true}},
	}
}

func promotionPlan() Plan {
	channel := Flag{Percent: 50}
	return Plan{
		{"p_promo_sk", SurrogateKey{}},
		{"p_promo_id", BusinessKey{}},
		{"p_start_date_sk", Dates(1998, 1, 1, 2003, 12, 31)},
		{"p_end_date_sk", DateOffset{Column: "p_start_date_sk", Min: 1, Max: 60}},
		{"p_item_sk", ForeignKey{Table: schema.Item}},
		{"p_cost", UniformDecimal{Min: 100000, Max: 100000, Places: 2}},
		{"p_response_target", UniformInt{Min: 1, Max: 1}},
		{"p_promo_name", Pick{Values: promoSyllables}},
		{"p_channel_dmail", channel},
		{"p_channel_email", Flag{Percent: 0}},
		{"p_channel_catalog", Flag{Percent: 0}},
		{"p_channel_tv", channel},
		{"p_channel_radio", Flag{Percent: 0}},
		{"p_channel_press", Flag{Percent: 0}},
		{"p_channel_event", channel},
		{"p_channel_demo", Flag{Percent: 0}},
		{"p_channel_details", Words{List: lorem, Min: 4, Max: 12}},
		{"p_purpose", Pick{Values: promoPurposes}},
		{"p_discount_active", channel},
	}
}

func reasonPlan() Plan {
	return Plan{
		{"r_reason_sk", SurrogateKey{}},
		{"r_reason_id", BusinessKey{}},
		{"r_reason_desc", Cycle{Values: reasonDescriptions}},
	}
}

func shipModePlan() Plan {
	return Plan{
		{"sm_ship_mode_sk", SurrogateKey{}},
		{"sm_ship_mode_id", BusinessKey{}},
		{"sm_type", Cycle{Values: shipModeTypes}},
		{"sm_code", Cycle{Values: shipModeCodes, Divisor: int64(len(shipModeTypes))}},
		{"sm_carrier", Cycle{Values: shipModeCarriers}},
		{"sm_contract", RandomText{Charset: alphanumeric, Min: 1, Max: 20}},
	}
}

func warehousePlan() Plan {
	return Plan{
		{"w_warehouse_sk", SurrogateKey{}},
		{"w_warehouse_id", BusinessKey{}},
		{"w_warehouse_name", RandomText{Charset: alphanumeric, Min: 10, Max: 20}},
		{"w_warehouse_sq_ft", UniformInt{Min: 50000, Max: 1000000}},
		{"w_street_number", Formatted{Format: "%d", Min: 1, Max: 1000}},
		{"w_street_name", Words{List: streetNames, Min: 1, Max: 2}},
		{"w_street_type", Pick{Values: streetTypes}},
		{"w_suite_number", Formatted{Format: "Suite %d", Min: 0, Max: 490}},
		{"w_city", Pick{Values: cities}},
		{"w_county", Pick{Values: counties}},
		{"w_state", Pick{Values: states}},
		{"w_zip", Formatted{Format: "%05d", Min: 10000, Max: 99999}},
		{"w_country", Const{Value: "United States"}},
		{"w_gmt_offset", NewPickDecimal(2, "-5.00", "-6.00", "-7.00", "-8.00", "-10.00")},
	}
}
