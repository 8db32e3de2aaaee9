package recurrence

// ServiceBucket groups subscriptions that do the same job.
type ServiceBucket struct {
	Name       string
	Suggestion string
	Keywords   []string
}

// Config holds the keyword tables and thresholds used by the detector.
type Config struct {
	KnownSubscriptions []string
	RecurringMarkers   []string
	ServiceBuckets     []ServiceBucket

	ConsistentAbs     float64
	ConsistentRel     float64
	LooselyAbs        float64
	LooselyRel        float64
	MinPeriodDays     float64
	MaxPeriodDays     float64
	MinReportedScore  float64
	MinComparisonDays int

	SpikePercent float64
	SpikeAmount  float64
	TopChanges   int
	TopSpikes    int

	PriceTolerance   float64
	PriceMinIncrease float64
	PriceMinPercent  float64
	MaxPriceChanges  int
}

// DefaultConfig returns the built-in tables and thresholds.
func DefaultConfig() Config {
	return Config{
		KnownSubscriptions: []string{
			"NETFLIX", "SPOTIFY", "HULU", "DISNEY", "HBO", "AMAZON PRIME",
			"APPLE MUSIC", "YOUTUBE", "PARAMOUNT", "PEACOCK", "AUDIBLE",
			"ADOBE", "MICROSOFT 365", "GOOGLE ONE", "DROPBOX", "ICLOUD",
			"PLANET FITNESS", "LA FITNESS", "ANYTIME FITNESS", "EQUINOX",
			"GYM", "FITNESS", "PELOTON",
			"ONLYFANS", "PATREON", "TWITCH",
			"AFTERPAY", "KLARNA", "ZIP PAY", "AFFIRM",
			"HEADSPACE", "CALM", "NOOM",
			"HELLO FRESH", "BLUE APRON",
			"CHATGPT", "CLAUDE", "OPENAI",
			"COMMSEC", "DIRECT DEBIT",
		},
		RecurringMarkers: []string{"DIRECT DEBIT", "BPAY", "AUTOPAY", "AUTO PAY"},
		ServiceBuckets: []ServiceBucket{
			{
				Name:       "Music",
				Keywords:   []string{"SPOTIFY", "APPLE MUSIC", "YOUTUBE MUSIC", "AMAZON MUSIC", "TIDAL", "DEEZER", "PANDORA"},
				Suggestion: "You are paying for more than one music service. Pick one and cancel the rest.",
			},
			{
				Name: "Streaming",
				Keywords: []string{
					"NETFLIX", "HULU", "DISNEY", "HBO", "AMAZON PRIME", "PARAMOUNT", "PEACOCK",
					"APPLE TV", "YOUTUBE", "STAN", "BINGE", "KAYO", "FOXTEL", "CRUNCHYROLL", "DAZN",
				},
				Suggestion: "Keep 1-2 streaming services and rotate the others month to month.",
			},
			{
				Name:       "Cloud Storage",
				Keywords:   []string{"DROPBOX", "ICLOUD", "GOOGLE ONE", "ONEDRIVE", "BOX.COM", "PCLOUD"},
				Suggestion: "Move your files into one cloud storage plan and cancel the duplicates.",
			},
			{
				Name:       "Fitness",
				Keywords:   []string{"GYM", "FITNESS", "PELOTON", "EQUINOX", "F45", "CROSSFIT", "ORANGETHEORY"},
				Suggestion: "Several fitness memberships overlap. Keep the one you use most.",
			},
			{
				Name:       "Food Delivery",
				Keywords:   []string{"UBER EATS", "UBEREATS", "DOORDASH", "MENULOG", "DELIVEROO", "GRUBHUB", "DASHPASS", "UBER ONE"},
				Suggestion: "One delivery membership is enough. Cancel the extra passes.",
			},
			{
				Name:       "Password Manager",
				Keywords:   []string{"1PASSWORD", "LASTPASS", "DASHLANE", "BITWARDEN", "KEEPER"},
				Suggestion: "Export your vault into a single password manager and cancel the other.",
			},
			{
				Name:       "VPN",
				Keywords:   []string{"NORDVPN", "EXPRESSVPN", "SURFSHARK", "PROTONVPN", "PRIVATE INTERNET ACCESS", "VPN"},
				Suggestion: "You only need one VPN subscription.",
			},
		},

		ConsistentAbs:     2.0,
		ConsistentRel:     0.05,
		LooselyAbs:        10.0,
		LooselyRel:        0.15,
		MinPeriodDays:     25,
		MaxPeriodDays:     35,
		MinReportedScore:  0.5,
		MinComparisonDays: 60,

		SpikePercent: 30,
		SpikeAmount:  20,
		TopChanges:   5,
		TopSpikes:    3,

		PriceTolerance:   0.5,
		PriceMinIncrease: 1.0,
		PriceMinPercent:  5.0,
		MaxPriceChanges:  10,
	}
}
