package scoring

// industryTerms maps a brand's industry label to vocabulary that signals
// topical alignment. Matching half the list already yields the full
// alignment component.
var industryTerms = map[string][]string{
	"Fashion & Apparel":    {"fashion", "outfit", "style", "ootd", "clothing", "wear", "look", "wardrobe"},
	"Beauty & Cosmetics":   {"beauty", "makeup", "skincare", "cosmetic", "glow", "routine", "hair", "nails"},
	"Food & Beverage":      {"food", "recipe", "cooking", "eat", "drink", "restaurant", "snack", "meal"},
	"Fitness & Wellness":   {"fitness", "workout", "gym", "health", "wellness", "yoga", "training", "nutrition"},
	"Technology":           {"tech", "gadget", "app", "software", "device", "ai", "coding", "innovation"},
	"Entertainment":        {"movie", "show", "series", "music", "celebrity", "streaming", "film", "tv"},
	"Gaming":               {"gaming", "gamer", "game", "esports", "stream", "console", "pc", "twitch"},
	"Travel & Hospitality": {"travel", "trip", "vacation", "hotel", "destination", "flight", "explore", "wanderlust"},
	"Education":            {"learn", "study", "school", "course", "teacher", "student", "education", "tips"},
	"Finance":              {"money", "invest", "finance", "budget", "savings", "crypto", "stock", "wealth"},
	"Real Estate":          {"realestate", "home", "property", "house", "apartment", "mortgage", "listing", "interior"},
	"Automotive":           {"car", "auto", "driving", "vehicle", "ev", "motor", "garage", "detailing"},
	"Healthcare":           {"health", "doctor", "medical", "wellness", "therapy", "care", "clinic", "mentalhealth"},
	"E-commerce":           {"shop", "shopping", "haul", "deal", "unboxing", "review", "amazon", "order"},
	"SaaS":                 {"software", "saas", "productivity", "tool", "startup", "workflow", "automation", "b2b"},
	"Media":                {"news", "media", "podcast", "content", "creator", "journalism", "viral", "story"},
	"Sports":               {"sports", "team", "match", "athlete", "training", "league", "goal", "fan"},
	"Music":                {"music", "song", "artist", "concert", "album", "playlist", "dj", "cover"},
	"Art & Design":         {"art", "design", "artist", "drawing", "creative", "illustration", "studio", "aesthetic"},
	"Sustainability":       {"sustainable", "eco", "green", "climate", "recycle", "zerowaste", "vegan", "planet"},
}

// TermsForIndustry returns the alignment vocabulary for an industry
// label, nil when the industry is unknown.
func TermsForIndustry(industry string) []string {
	return industryTerms[industry]
}
