package classify

import "strings"

// Attributes holds the classification inputs read from a document-id
// element. Values are normalized by NewAttributes.
type Attributes struct {
	Format     string
	LoadSource string
}

// NewAttributes trims and lower-cases the raw attribute values. An absent
// attribute is passed as "".
func NewAttributes(format, loadSource string) Attributes {
	return Attributes{
		Format:     normalize(format),
		LoadSource: normalize(loadSource),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Rule maps a predicate over Attributes to a bucket.
type Rule struct {
	Name   string
	Match  func(Attributes) bool
	Bucket Bucket
}

// DefaultRules is the provenance table. The epo rule is evaluated before
// the patent-office rule, so attributes matching both land in EPO.
var DefaultRules = []Rule{
	{
		Name: "epo",
		Match: func(a Attributes) bool {
			return a.Format == "epo" || a.LoadSource == "docdb"
		},
		Bucket: EPO,
	},
	{
		Name: "patent-office",
		Match: func(a Attributes) bool {
			return a.LoadSource == "patent-office" || a.Format == "original"
		},
		Bucket: PatentOffice,
	},
}

// Classifier evaluates an ordered rule table. The zero value uses
// DefaultRules.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a Classifier over rules. With no rules it uses
// DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Rules returns the table the classifier evaluates.
func (c *Classifier) Rules() []Rule {
	if c == nil || len(c.rules) == 0 {
		return DefaultRules
	}
	return c.rules
}

// Classify returns the bucket of the first matching rule, or Other.
func (c *Classifier) Classify(a Attributes) Bucket {
	for _, r := range c.Rules() {
		if r.Match != nil && r.Match(a) {
			return r.Bucket
		}
	}
	return Other
}

// Classify classifies a with DefaultRules.
func Classify(a Attributes) Bucket {
	return (*Classifier)(nil).Classify(a)
}
