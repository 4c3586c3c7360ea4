package caption

// phraseSignals maps a format type to caption phrases that indicate it.
// Matching is case-insensitive substring containment.
var phraseSignals = map[string][]string{
	"pov_format":       {"pov:", "pov "},
	"tutorial_format":  {"how to", "tutorial", "step by step"},
	"grwm":             {"grwm", "get ready with me"},
	"storytime":        {"storytime", "story time", "let me tell you"},
	"challenge":        {"challenge"},
	"before_after":     {"before and after", "glow up", "transformation"},
	"transition_trend": {"transition"},
	"meme_template":    {"me when", "nobody:", "no one:"},
}

// hashtagSignals maps a format type to hashtags that indicate it. A
// format with at least one matching hashtag gets a single fixed bonus
// on top of its phrase count.
var hashtagSignals = map[string][]string{
	"pov_format":       {"pov"},
	"tutorial_format":  {"tutorial", "howto", "learnontiktok"},
	"grwm":             {"grwm", "getreadywithme"},
	"storytime":        {"storytime"},
	"challenge":        {"challenge"},
	"before_after":     {"beforeandafter", "glowup", "transformation"},
	"transition_trend": {"transition"},
}

const hashtagSignalBonus = 2

// minSignalCount is the floor below which a signal is noise.
const minSignalCount = 2
