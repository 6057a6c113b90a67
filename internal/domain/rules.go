package domain

// Rules bundles the fixed pattern vocabulary for one city: which names mark
// a street as prime or avoid, and which variant names collapse into one
// canonical key. Loaded once at startup and injected into Normalizer and
// Classifier so tests (or another city) can supply their own.
type Rules struct {
	// AvoidPatterns mark bus routes and major arteries. Checked first;
	// a match short-circuits classification.
	AvoidPatterns []string
	// PrimePatterns mark narrow, quiet streets: generic narrow-street nouns
	// plus enumerated named exceptions.
	PrimePatterns []string
	// Aliases maps a canonical-form variant key to the single merged key,
	// variant → canonical only. Keys are written in the form the Normalizer
	// produces just before the alias step.
	Aliases map[string]string
}

// NYCRules returns the Manhattan-centric vocabulary the map ships with.
func NYCRules() Rules {
	return Rules{
		AvoidPatterns: []string{
			// Major avenues.
			"BROADWAY", "AVENUE OF THE AMERICAS", "6TH AVENUE", "7TH AVENUE",
			"VARICK STREET", "WEST STREET", "WEST END AVENUE",
			"1ST AVENUE", "2ND AVENUE", "3RD AVENUE", "LEXINGTON AVENUE",
			"PARK AVENUE", "MADISON AVENUE", "5TH AVENUE", "8TH AVENUE",
			"9TH AVENUE", "10TH AVENUE", "11TH AVENUE", "12TH AVENUE",
			"AMSTERDAM AVENUE", "COLUMBUS AVENUE", "CENTRAL PARK WEST",
			"AVENUE A", "AVENUE B", "AVENUE C", "AVENUE D",
			"BOWERY", "LAFAYETTE STREET", "CENTRE STREET", "ALLEN STREET",
			"ESSEX STREET", "ELDRIDGE STREET", "CHRYSTIE STREET",
			"FDR DRIVE", "HENRY HUDSON",
			// Major cross streets.
			"14TH STREET", "23RD STREET", "34TH STREET", "42ND STREET",
			"57TH STREET", "72ND STREET", "79TH STREET", "86TH STREET",
			"96TH STREET", "110TH STREET", "125TH STREET",
			"CANAL STREET", "CHAMBERS STREET", "HOUSTON STREET",
			"DELANCEY STREET", "GRAND STREET", "WORTH STREET",
			// Downtown arteries.
			"CHURCH STREET", "GREENWICH STREET", "TRINITY PLACE",
			"WATER STREET", "SOUTH STREET", "FULTON STREET", "WALL STREET",
		},
		PrimePatterns: []string{
			"ALLEY", "MEWS", "PLACE", "SLIP", "COURT", "ROW", "LANE", "WAY",
			// West Village.
			"GAY STREET", "COMMERCE STREET", "WEEHAWKEN STREET", "JONES STREET",
			"CORNELIA STREET", "MINETTA", "PATCHIN PLACE", "MILLIGAN PLACE",
			"WASHINGTON MEWS", "MACDOUGAL ALLEY", "GROVE COURT",
			// East Village / Lower East Side.
			"STUYVESANT STREET", "EXTRA PLACE", "GREAT JONES ALLEY", "SHINBONE ALLEY",
			"FREEMAN ALLEY", "RIVINGTON",
			// Tribeca / SoHo.
			"STAPLE STREET", "CORTLANDT ALLEY", "COLLISTER STREET", "LAIGHT STREET",
			"HUBERT STREET", "BEACH STREET", "ERICSSON PLACE", "HARRISON STREET",
			"VESTRY STREET", "DESBROSSES STREET", "WATTS STREET",
			// Midtown.
			"SHUBERT ALLEY", "POMANDER WALK",
			// Uptown.
			"HENDERSON PLACE",
		},
		Aliases: map[string]string{
			// Ceremonial names for numbered avenues. Spelled-out and
			// abbreviated forms ("Sixth Avenue", "6th Ave") already reduce to
			// the digit form before the alias step, so they need no entries.
			"AVENUE OF THE AMERICAS": "6 AVENUE",
			"FASHION AVENUE":         "7 AVENUE",
			// Administrative renamings still present in older data.
			"ADAM CLAYTON POWELL JR BOULEVARD": "7 AVENUE",
			"ADAM CLAYTON POWELL BOULEVARD":    "7 AVENUE",
			"FREDERICK DOUGLASS BOULEVARD":     "8 AVENUE",
			"MALCOLM X BOULEVARD":              "LENOX AVENUE",
			// Avenue continuations that change name uptown.
			"COLUMBUS AVENUE":  "9 AVENUE",
			"AMSTERDAM AVENUE": "10 AVENUE",
			"WEST END AVENUE":  "11 AVENUE",
			// The trailing-direction strip reduces "Central Park West" to this
			// form before the alias lookup runs.
			"CENTRAL PARK": "8 AVENUE",
			// Park Avenue below 14th Street appears as Fourth Avenue, which
			// normalizes to the digit form.
			"4 AVENUE": "PARK AVENUE",
			// "St" expands to "STREET" during street-type expansion, so
			// Saint-prefixed names arrive at the alias step in this shape.
			"STREET MARKS PLACE":     "SAINT MARKS PLACE",
			"STREET NICHOLAS AVENUE": "SAINT NICHOLAS AVENUE",
		},
	}
}
