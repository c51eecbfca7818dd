package nlp

// aliases maps a normalised skill name to its canonical spelling.
var aliases = map[string]string{
	"postgresql": "postgres",
	"k8s":        "kubernetes",
	"golang":     "go",
	"js":         "javascript",
	"ts":         "typescript",
	"nodejs":     "node js",
	"node":       "node js",
	"rest api":   "rest",
	"cicd":       "ci cd",
	"reactjs":    "react",
	"vuejs":      "vue",
	"vue js":     "vue",
	"react js":   "react",
}

// SkillKey returns the canonical comparison key for a skill name, so that
// "Golang" and "Go", or "PostgreSQL" and "Postgres", compare equal.
func SkillKey(skill string) string {
	base := NormalizeText(skill)
	if canon, ok := aliases[base]; ok {
		return canon
	}
	return base
}

// SameSkill reports whether two skill names denote the same skill.
func SameSkill(a, b string) bool {
	ka := SkillKey(a)
	return ka != "" && ka == SkillKey(b)
}
