package schema

// Table names of the benchmark schema.
const (
	HouseholdDemographics = "household_demographics"
	IncomeBand            = "income_band"
	Promotion             = "promotion"
	Reason                = "reason"
	ShipMode              = "ship_mode"
	Warehouse             = "warehouse"

	// Item is referenced by promotion but not generated here; only its row
	// count is known to the scaling lookup.
	Item = "item"
)

func primaryKey(name string) Column {
	return Column{Name: name, Type: IdentifierType(), NotNull: true}
}

func businessKey(name string) Column {
	return Column{Name: name, Type: CharType(16), NotNull: true}
}

func col(name string, t DataType, seedsPerRow int) Column {
	return Column{Name: name, Type: t, SeedsPerRow: seedsPerRow}
}

// benchmarkTables is the declaration order that fixes global column numbers.
// Reordering tables or columns changes every generated byte.
func benchmarkTables() []TableDef {
	return []TableDef{
		{
			Name:        HouseholdDemographics,
			NullsColumn: "hd_nulls",
			Columns: []Column{
				primaryKey("hd_demo_sk"),
				col("hd_income_band_sk", IdentifierType(), 1),
				col("hd_buy_potential", CharType(15), 1),
				col("hd_dep_count", IntegerType(), 1),
				col("hd_vehicle_count", IntegerType(), 1),
			},
		},
		{
			Name:        IncomeBand,
			NullsColumn: "ib_nulls",
			Small:       true,
			Columns: []Column{
				primaryKey("ib_income_band_sk"),
				col("ib_lower_bound", IntegerType(), 0),
				col("ib_upper_bound", IntegerType(), 0),
			},
		},
		{
			Name:            Promotion,
			NullsColumn:     "p_nulls",
			NullBasisPoints: 200,
			Columns: []Column{
				primaryKey("p_promo_sk"),
				businessKey("p_promo_id"),
				col("p_start_date_sk", IdentifierType(), 1),
				col("p_end_date_sk", IdentifierType(), 1),
				col("p_item_sk", IdentifierType(), 1),
				col("p_cost", DecimalType(15, 2), 1),
				col("p_response_target", IntegerType(), 1),
				col("p_promo_name", CharType(50), 1),
				col("p_channel_dmail", CharType(1), 1),
				col("p_channel_email", CharType(1), 1),
				col("p_channel_catalog", CharType(1), 1),
				col("p_channel_tv", CharType(1), 1),
				col("p_channel_radio", CharType(1), 1),
				col("p_channel_press", CharType(1), 1),
				col("p_channel_event", CharType(1), 1),
				col("p_channel_demo", CharType(1), 1),
				col("p_channel_details", VarcharType(100), 13),
				col("p_purpose", CharType(15), 1),
				col("p_discount_active", CharType(1), 1),
			},
		},
		{
			Name:        Reason,
			NullsColumn: "r_nulls",
			Small:       true,
			Columns: []Column{
				primaryKey("r_reason_sk"),
				businessKey("r_reason_id"),
				col("r_reason_desc", CharType(100), 0),
			},
		},
		{
			Name:        ShipMode,
			NullsColumn: "sm_nulls",
			Small:       true,
			Columns: []Column{
				primaryKey("sm_ship_mode_sk"),
				businessKey("sm_ship_mode_id"),
				col("sm_type", CharType(30), 0),
				col("sm_code", CharType(10), 0),
				col("sm_carrier", CharType(20), 0),
				col("sm_contract", CharType(20), 21),
			},
		},
		{
			Name:            Warehouse,
			NullsColumn:     "w_nulls",
			NullBasisPoints: 100,
			Small:           true,
			Columns: []Column{
				primaryKey("w_warehouse_sk"),
				businessKey("w_warehouse_id"),
				col("w_warehouse_name", VarcharType(20), 21),
				col("w_warehouse_sq_ft", IntegerType(), 1),
				col("w_street_number", CharType(10), 1),
				col("w_street_name", VarcharType(60), 3),
				col("w_street_type", CharType(15), 1),
				col("w_suite_number", CharType(10), 1),
				col("w_city", VarcharType(60), 1),
				col("w_county", VarcharType(30), 1),
				col("w_state", CharType(2), 1),
				col("w_zip", CharType(10), 1),
				col("w_country", VarcharType(20), 0),
				col("w_gmt_offset", DecimalType(5, 2), 1),
			},
		},
	}
}
