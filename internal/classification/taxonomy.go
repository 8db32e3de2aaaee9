package classification

import (
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// Rule maps a category to the keywords that identify it.
type Rule struct {
	Category model.Category
	Keywords []string
}

// Taxonomy is an ordered rule list. Earlier rules win, which keeps brand
// names like NETFLIX in Subscriptions instead of a generic category.
type Taxonomy []Rule

// WithExtraKeywords returns a copy of t with extra keywords appended to the
// named categories. Unknown categories are ignored.
func (t Taxonomy) WithExtraKeywords(extra map[model.Category][]string) Taxonomy {
	out := make(Taxonomy, len(t))
	for i, rule := range t {
		keywords := append([]string(nil), rule.Keywords...)
		for _, kw := range extra[rule.Category] {
			if kw = strings.ToUpper(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		out[i] = Rule{Category: rule.Category, Keywords: keywords}
	}
	return out
}

// DefaultTaxonomy returns the built-in keyword taxonomy.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{Category: model.CategoryIncome, Keywords: []string{
			"SALARY", "PAYROLL", "WAGE", "DIRECT CREDIT", "EMPLOYER",
			"INTEREST EARNED", "DIVIDEND", "TAX REFUND", "CENTRELINK",
			"PENSION", "BONUS", "COMMISSION",
		}},
		{Category: model.CategoryTransfers, Keywords: []string{
			"TRANSFER TO", "TRANSFER FROM", "TFR TO", "TFR FROM",
			"INTERNAL TRANSFER", "OSKO", "BPAY", "PAY ANYONE",
			"ZELLE", "VENMO", "CASHAPP", "BETWEEN ACCOUNTS",
		}},
		{Category: model.CategorySubscriptions, Keywords: []string{
			// streaming
			"NETFLIX", "SPOTIFY", "HULU", "DISNEY", "HBO", "AMAZON PRIME",
			"APPLE MUSIC", "YOUTUBE PREMIUM", "PARAMOUNT", "PEACOCK", "AUDIBLE",
			"STAN", "BINGE", "KAYO", "FOXTEL", "CRUNCHYROLL", "DAZN",
			// software
			"ADOBE", "MICROSOFT 365", "GOOGLE ONE", "DROPBOX", "ICLOUD",
			"CANVA", "NOTION", "SLACK", "ZOOM", "GITHUB", "CHATGPT", "CLAUDE",
			// fitness
			"PLANET FITNESS", "LA FITNESS", "ANYTIME FITNESS", "EQUINOX",
			"CROSSFIT", "PELOTON", "BEACHBODY", "GYM MEMBERSHIP",
			"F45", "ORANGETHEORY", "BARRY'S",
			"ONLYFANS", "PATREON", "TWITCH", "SUBSTACK",
			"HEADSPACE", "CALM", "NOOM", "WEIGHT WATCHERS",
			"AMAZON SUBSCRIBE", "HELLO FRESH", "BLUE APRON",
			// buy now pay later
			"AFTERPAY", "KLARNA", "ZIP PAY", "AFFIRM", "SEZZLE", "HUMM",
		}},
		{Category: model.CategoryFees, Keywords: []string{
			"FEE", "CHARGE", "OVERDRAFT", "SERVICE CHARGE", "MAINTENANCE",
			"FOREIGN TRANSACTION", "MONTHLY FEE", "ANNUAL FEE", "LATE FEE",
			"INTEREST CHARGE", "FINANCE CHARGE", "ATM FEE", "ACCOUNT KEEPING",
			"DISHONOUR", "OVERDRAWN", "NSF",
		}},
		{Category: model.CategoryGroceries, Keywords: []string{
			"WOOLWORTHS", "COLES", "ALDI", "IGA", "COSTCO", "SAMS CLUB",
			"KROGER", "SAFEWAY", "PUBLIX", "WHOLE FOODS", "TRADER JOE",
			"GIANT EAGLE", "WEGMANS", "FOOD LION", "HARRIS TEETER",
			"SPROUTS", "FRESH MARKET", "PIGGLY WIGGLY",
			"TESCO", "SAINSBURY", "ASDA", "MORRISONS", "LIDL",
			"COUNTDOWN", "PAK N SAVE", "NEW WORLD",
			"SUPERMARKET", "GROCERY", "MARKET BASKET",
		}},
		{Category: model.CategoryDining, Keywords: []string{
			"MCDONALD", "BURGER KING", "WENDY", "TACO BELL", "KFC",
			"CHICK-FIL-A", "SUBWAY", "CHIPOTLE", "PANDA EXPRESS",
			"DOMINO", "PIZZA HUT", "PAPA JOHN", "FIVE GUYS",
			"SHAKE SHACK", "IN-N-OUT", "CARL'S JR", "JACK IN THE BOX",
			"STARBUCKS", "DUNKIN", "COSTA", "PRET", "TIM HORTONS",
			"CARIBOU", "GLORIA JEAN", "COFFEE BEAN",
			"UBER EATS", "UBEREATS", "DOORDASH", "MENULOG", "DELIVEROO",
			"GRUBHUB", "POSTMATES", "SEAMLESS", "JUST EAT", "SKIP THE DISHES",
			"INSTACART", "GOPUFF", "CAVIAR",
			"RESTAURANT", "CAFE", "DINER", "PIZZERIA", "SUSHI", "THAI",
			"CHINESE", "INDIAN", "MEXICAN", "ITALIAN", "BAR", "PUB", "GRILL",
		}},
		{Category: model.CategoryTransport, Keywords: []string{
			"UBER", "LYFT", "DIDI", "OLA", "GRAB", "BOLT",
			"TAXI", "CAB",
			"SHELL", "BP", "CHEVRON", "EXXON", "MOBIL", "TEXACO",
			"CALTEX", "7-ELEVEN GAS", "SPEEDWAY", "WAWA", "RACETRAC",
			"PETROL", "FUEL", "GAS STATION",
			"PARKING", "PARK", "METER",
			"TOLL", "E-TAG", "ETOLL", "LINKT",
			"TRANSIT", "METRO", "SUBWAY", "BUS", "TRAIN", "RAIL",
			"MYKI", "OPAL", "GO CARD", "CLIPPER",
			"CAR WASH", "AUTO REPAIR", "MECHANIC", "JIFFY LUBE",
		}},
		{Category: model.CategoryShopping, Keywords: []string{
			"AMAZON", "EBAY", "ETSY", "WALMART", "TARGET", "BEST BUY",
			"KMART", "BIG W", "MYER", "DAVID JONES",
			"MACY'S", "NORDSTROM", "JC PENNEY", "KOHL'S", "TJ MAXX",
			"ROSS", "MARSHALLS", "BURLINGTON",
			"IKEA", "HOME DEPOT", "LOWE'S", "BUNNINGS", "MITRE 10",
			"OFFICEWORKS", "STAPLES", "OFFICE DEPOT",
			"APPLE STORE", "MICROSOFT STORE",
			"NIKE", "ADIDAS", "ZARA", "H&M", "UNIQLO", "GAP",
			"OLD NAVY", "FOREVER 21", "SHEIN", "ASOS",
			"SEPHORA", "ULTA", "BATH & BODY", "LUSH",
			"CHEMIST", "CVS", "WALGREENS", "RITE AID", "PRICELINE",
		}},
		{Category: model.CategoryUtilities, Keywords: []string{
			"ELECTRIC", "POWER", "ENERGY", "GAS BILL", "WATER BILL",
			"AGL", "ORIGIN", "ENERGY AUSTRALIA", "ALINTA",
			"PG&E", "CON EDISON", "DUKE ENERGY", "SOUTHERN COMPANY",
			"INTERNET", "BROADBAND", "NBN", "COMCAST", "XFINITY",
			"AT&T", "VERIZON", "T-MOBILE", "SPRINT", "TELSTRA", "OPTUS", "VODAFONE",
			"PHONE BILL", "MOBILE PLAN", "CELL PHONE",
			"INSURANCE", "GEICO", "STATE FARM", "ALLSTATE", "PROGRESSIVE",
			"NRMA", "RACV", "RACQ", "AAMI", "SUNCORP",
			"RENT", "MORTGAGE", "HOME LOAN", "PROPERTY",
			"COUNCIL", "RATES", "STRATA",
		}},
		{Category: model.CategoryHealth, Keywords: []string{
			"PHARMACY", "DOCTOR", "MEDICAL", "HOSPITAL", "CLINIC",
			"DENTAL", "DENTIST", "OPTOMETRIST", "VISION", "EYE",
			"PHYSIO", "CHIROPRACTOR", "MASSAGE", "SPA",
			"VITAMIN", "SUPPLEMENT", "GNC",
			"MEDIBANK", "BUPA", "NIB", "HCF", "AHSA",
			"UNITED HEALTH", "CIGNA", "AETNA", "HUMANA", "KAISER",
		}},
		{Category: model.CategoryEntertainment, Keywords: []string{
			"CINEMA", "MOVIE", "THEATRE", "THEATER", "AMC", "REGAL",
			"EVENT CINEMAS", "HOYTS", "VILLAGE",
			"CONCERT", "TICKET", "TICKETMASTER", "LIVE NATION",
			"EVENTBRITE", "STUBHUB",
			"STEAM", "PLAYSTATION", "XBOX", "NINTENDO", "EPIC GAMES",
			"APP STORE", "GOOGLE PLAY", "ITUNES",
			"BOOK", "KINDLE", "AUDIBLE", "BARNES NOBLE",
			"BOWLING", "ARCADE", "MINI GOLF", "LASER TAG",
			"MUSEUM", "ZOO", "AQUARIUM", "THEME PARK",
		}},
		{Category: model.CategoryTravel, Keywords: []string{
			"AIRLINE", "FLIGHT", "QANTAS", "VIRGIN", "JETSTAR", "REX",
			"UNITED", "DELTA", "AMERICAN", "SOUTHWEST", "ALASKA",
			"BRITISH AIRWAYS", "LUFTHANSA", "EMIRATES", "SINGAPORE",
			"HOTEL", "MOTEL", "AIRBNB", "VRBO", "BOOKING.COM", "EXPEDIA",
			"MARRIOTT", "HILTON", "HYATT", "IHG", "WYNDHAM", "BEST WESTERN",
			"CAR RENTAL", "HERTZ", "AVIS", "ENTERPRISE", "BUDGET", "ALAMO",
			"CRUISE", "CARNIVAL", "ROYAL CARIBBEAN",
		}},
	}
}
