package rowgen

// Value lists drawn from by the built-in plans.
var (
	buyPotentials = []string{"0-500", "501-1000", "1001-5000", "5001-10000", ">10000", "Unknown"}

	reasonDescriptions = []string{
		"Package was damaged", "Stopped working", "Did not get it on time",
		"Not the product that was ordred", "Parts missing", "Does not work with a product that I have",
		"Gift exchange", "Did not like the color", "Did not like the model", "Did not like the make",
		"Did not like the warranty", "No service location in my area", "Found a better price in a store",
		"Found a better extended warranty in a store", "Not working any more", "Did not fit",
		"Wrong size", "Lost my job", "unauthoized purchase", "duplicate purchase", "its is a boy",
		"it is a girl", "reason 23", "reason 24", "reason 25", "reason 26", "reason 27", "reason 28",
		"reason 29", "reason 30", "reason 31", "reason 32", "reason 33", "reason 34", "reason 35",
	}

	shipModeTypes    = []string{"EXPRESS", "NEXT DAY", "OVERNIGHT", "TWO DAY", "REGULAR", "LIBRARY"}
	shipModeCodes    = []string{"AIR", "SURFACE", "SEA", "BIKE", "HAND CARRY", "MESSENGER", "SHIP", "TRUCK"}
	shipModeCarriers = []string{
		"UPS", "FEDEX", "AIRBORNE", "USPS", "DHL", "TBS", "ZHOU", "ZOUROS", "MSC", "LATVIAN",
		"ALLIANCE", "ORIENTAL", "BARIAN", "BOXBUNDLES", "GREAT EASTERN", "DIAMOND", "RUPEKSA",
		"GERMA", "HARMSTORF", "PRIVATECARRIER",
	}

	streetNames = []string{
		"Main", "Oak", "Park", "Maple", "Cedar", "Elm", "Lake", "Hill", "Pine", "Washington",
		"First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Eighth", "Ninth",
		"Tenth", "Jackson", "Lincoln", "Church", "Spring", "Willow", "Highland", "Forest", "Ridge",
		"Walnut", "Sunset", "Chestnut", "River", "Center", "Meadow", "Dogwood", "Johnson", "Mill",
	}
	streetTypes = []string{
		"Street", "ST", "Avenue", "Ave", "Boulevard", "Blvd", "Road", "RD", "Parkway", "Pkwy",
		"Way", "Wy", "Drive", "Dr.", "Circle", "Cir.", "Lane", "Ln", "Court", "Ct.",
	}
	cities = []string{
		"Midway", "Fairview", "Oak Grove", "Five Points", "Pleasant Hill", "Centerville", "Riverside",
		"Mount Pleasant", "Bethel", "Union", "Greenwood", "Salem", "Liberty", "Clinton", "Franklin",
		"Springdale", "Shiloh", "Springfield", "Georgetown", "Marion",
	}
	counties = []string{
		"Williamson County", "Walker County", "Ziebach County", "Barrow County", "Bronx County",
		"Franklin Parish", "Luce County", "Richland County", "Huron County", "Dona Ana County",
		"Mobile County", "Daviess County", "Orange County", "Jefferson County", "Marion County",
	}
	states = []string{
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN", "IA",
		"KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
		"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT",
		"VA", "WA", "WV", "WI", "WY",
	}

	promoSyllables = []string{"ought", "able", "pri", "ese", "anti", "cally", "ation", "eing", "n st", "bar"}
	promoPurposes  = []string{"Unknown", "Sale", "Clearance", "Holiday", "Seasonal", "Introduction"}

	// lorem is the vocabulary of free text columns.
	lorem = []string{
		"able", "about", "above", "across", "after", "again", "against", "almost", "alone", "along",
		"already", "also", "always", "among", "another", "answer", "around", "away", "became",
		"because", "become", "before", "began", "being", "below", "besides", "better", "between",
		"beyond", "both", "brief", "certain", "clear", "close", "common", "complete", "course",
		"current", "deep", "different", "direct", "early", "easy", "effective", "entire", "equal",
		"even", "every", "exactly", "fair", "final", "fine", "foreign", "former", "free", "full",
		"further", "general", "good", "great", "half", "hard", "heavy", "high", "human", "important",
		"individual", "large", "late", "light", "likely", "little", "local", "long", "main", "major",
		"modern", "national", "natural", "necessary", "new", "normal", "obvious", "old", "only",
		"open", "original", "other", "particular", "past", "personal", "physical", "political",
		"poor", "possible", "present", "private", "public", "quick", "quiet", "rare", "ready",
		"real", "recent", "red", "right", "serious", "short", "significant", "similar", "simple",
		"single", "small", "social", "special", "strong", "sudden", "sure", "total", "true",
		"usual", "various", "whole", "wide", "young",
	}
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
