package fitness

import "strings"

// MovementType is a coarse biomechanical category assigned to an exercise.
type MovementType string

// Movement type constants.
const (
	MovementPush      MovementType = "push"
	MovementPull      MovementType = "pull"
	MovementSquat     MovementType = "squat"
	MovementHinge     MovementType = "hinge"
	MovementCore      MovementType = "core"
	MovementCarry     MovementType = "carry"
	MovementIsolation MovementType = "isolation"
)

// Difficulty is the qualitative tier assigned to an exercise.
type Difficulty string

// Difficulty tier constants.
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// patternRule matches a movement type by name keywords or muscle labels.
type patternRule struct {
	movement MovementType
	keywords []string
	muscles  []string
}

// movementPatterns is the classification chain. Order is significant: the
// first matching rule wins, so an exercise hitting both core and push
// keywords classifies as core.
var movementPatterns = []patternRule{
	{
		movement: MovementCore,
		keywords: []string{
			"plank", "crunch", "sit-up", "situp", "sit up", "twist",
			"hollow", "leg raise", "mountain climber", "dead bug",
			"bird dog", "ab wheel", "rollout", "v-up",
		},
		muscles: []string{"abs", "abdominals", "core", "obliques"},
	},
	{
		movement: MovementPush,
		keywords: []string{
			"push", "press", "bench", "dip", "fly", "flye",
			"handstand", "pike",
		},
		muscles: []string{"chest", "pecs", "pectorals", "triceps", "front delts", "shoulders", "delts"},
	},
	{
		movement: MovementPull,
		keywords: []string{
			"pull", "row", "chin", "lat ", "pulldown", "pullover",
			"shrug", "curl",
		},
		muscles: []string{"back", "lats", "biceps", "traps", "rear delts", "rhomboids"},
	},
	{
		movement: MovementSquat,
		keywords: []string{
			"squat", "lunge", "leg press", "step up", "step-up",
			"pistol", "wall sit",
		},
		muscles: []string{"quads", "quadriceps"},
	},
	{
		movement: MovementHinge,
		keywords: []string{
			"deadlift", "hinge", "hip thrust", "good morning",
			"swing", "bridge", "rdl", "back extension",
		},
		muscles: []string{"hamstrings", "glutes", "lower back", "erectors"},
	},
	{
		movement: MovementCarry,
		keywords: []string{"carry", "farmer", "suitcase", "yoke"},
		muscles:  []string{"grip", "forearms"},
	},
}

// compoundKeywords mark multi-joint lifts by name regardless of muscle data.
var compoundKeywords = []string{
	"squat", "deadlift", "press", "bench", "row", "pull-up", "pullup",
	"pull up", "chin-up", "chinup", "clean", "snatch", "lunge",
	"thruster", "dip", "muscle-up",
}

// Name keywords that force a difficulty tier before equipment defaults apply.
var (
	advancedKeywords = []string{
		"pistol", "muscle-up", "muscle up", "planche", "one-arm",
		"one arm", "single-arm handstand", "front lever", "dragon",
		"archer", "snatch", "clean and jerk", "deficit",
	}
	intermediateKeywords = []string{
		"bulgarian", "nordic", "pause", "tempo", "single-leg",
		"single leg", "handstand",
	}
)

// compoundThresholds gate the compound classification fallbacks.
const (
	compoundMuscleCount = 3
	compoundMET         = 6.0
)

// nameDifficulty scores specific exercise names 1 (easiest) to 5 (hardest).
// Lookup is exact first, then substring containment, then a neutral 3.
var nameDifficulty = map[string]int{
	"wall push-up":        1,
	"incline push-up":     1,
	"knee push-up":        1,
	"plank":               1,
	"glute bridge":        1,
	"bodyweight squat":    2,
	"push-up":             2,
	"lunge":               2,
	"dumbbell row":        2,
	"goblet squat":        2,
	"lat pulldown":        2,
	"bench press":         3,
	"barbell squat":       3,
	"overhead press":      3,
	"romanian deadlift":   3,
	"chin-up":             3,
	"dip":                 3,
	"barbell row":         3,
	"deadlift":            4,
	"pull-up":             4,
	"front squat":         4,
	"decline push-up":     4,
	"pistol squat":        5,
	"muscle-up":           5,
	"handstand push-up":   5,
	"one-arm push-up":     5,
	"nordic hamstring":    5,
}

const neutralDifficultyScore = 3

// difficultyScore resolves a 1-5 numeric difficulty for an exercise name.
func difficultyScore(name string) int {
	lower := strings.ToLower(name)
	if score, ok := nameDifficulty[lower]; ok {
		return score
	}
	for known, score := range nameDifficulty {
		if strings.Contains(lower, known) || strings.Contains(known, lower) {
			return score
		}
	}
	return neutralDifficultyScore
}

// MuscleBucket is the coarse grouping used for training-frequency rotation.
type MuscleBucket string

// Muscle bucket constants.
const (
	BucketChest     MuscleBucket = "Chest"
	BucketBack      MuscleBucket = "Back"
	BucketLegs      MuscleBucket = "Legs"
	BucketShoulders MuscleBucket = "Shoulders"
	BucketArms      MuscleBucket = "Arms"
	BucketCore      MuscleBucket = "Core"
	BucketOther     MuscleBucket = "Other"
)

// bucketRule assigns a muscle bucket by exercise-name keywords. Order is
// significant: "bench press" must land in Chest before Shoulders sees
// "press", and "leg extension" in Legs before Arms sees "extension".
type bucketRule struct {
	bucket   MuscleBucket
	keywords []string
}

var muscleBuckets = []bucketRule{
	{BucketCore, []string{"plank", "crunch", "sit-up", "situp", "ab ", "abs", "core", "oblique", "twist", "hollow"}},
	{BucketChest, []string{"bench", "chest", "push-up", "push up", "pushup", "fly", "flye", "dip"}},
	{BucketBack, []string{"row", "pull-up", "pull up", "pullup", "pulldown", "lat ", "chin", "shrug", "pullover"}},
	{BucketLegs, []string{"squat", "lunge", "leg", "deadlift", "calf", "glute", "hamstring", "hip thrust", "step"}},
	{BucketShoulders, []string{"shoulder", "overhead", "lateral", "raise", "military", "arnold", "delt"}},
	{BucketArms, []string{"curl", "bicep", "tricep", "extension", "forearm", "wrist", "skull"}},
}

// bucketForExercise assigns an exercise name to a muscle bucket.
func bucketForExercise(name string) MuscleBucket {
	lower := strings.ToLower(name)
	for _, rule := range muscleBuckets {
		if containsAny(lower, rule.keywords) {
			return rule.bucket
		}
	}
	return BucketOther
}

// routineNameKeywords match routine names to the muscle bucket they likely
// train, used when recommending a routine for a neglected bucket.
var routineNameKeywords = map[MuscleBucket][]string{
	BucketChest:     {"chest", "push", "bench", "upper"},
	BucketBack:      {"back", "pull", "row", "upper"},
	BucketLegs:      {"leg", "lower", "squat", "glute"},
	BucketShoulders: {"shoulder", "push", "delt", "upper"},
	BucketArms:      {"arm", "curl", "bicep", "tricep", "upper"},
	BucketCore:      {"core", "ab", "abs"},
}

// containsAny reports whether lower contains any of the needles. The haystack
// must already be lowercased.
func containsAny(lower string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}

// intersectsAny reports whether any label in labels contains or is contained
// by any of the needles, case-insensitively.
func intersectsAny(labels, needles []string) bool {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, needle := range needles {
			if strings.Contains(lower, needle) || strings.Contains(needle, lower) {
				return true
			}
		}
	}
	return false
}
