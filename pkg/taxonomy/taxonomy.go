// Package taxonomy loads the static category tree and the attribute
// vocabularies offers are classified against.
package taxonomy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Widedbounou/SK-B/pkg/apperror"
)

//go:embed default.json
var defaultJSON []byte

type Subcategory struct {
	SubcatID string `json:"subcatId"`
	Name     string `json:"name"`
}

type Category struct {
	CatID         string        `json:"catId"`
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

type labelItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type feature struct {
	Values struct {
		SimpleData []labelItem `json:"simpleData"`
	} `json:"values"`
}

type document struct {
	Categories []Category                 `json:"categories"`
	Features   map[string]json.RawMessage `json:"features"`
}

// Taxonomy is read-only after Load and safe for concurrent use.
type Taxonomy struct {
	categories []Category
	labels     map[string][]string
	allowed    map[string]map[string]struct{}
	raw        json.RawMessage
	features   json.RawMessage
}

// Load reads a taxonomy document from path.
func Load(path string) (*Taxonomy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	return Parse(b)
}

// LoadDefault returns the taxonomy embedded in the binary.
func LoadDefault() (*Taxonomy, error) {
	return Parse(defaultJSON)
}

// Parse builds a Taxonomy from a JSON document.
func Parse(b []byte) (*Taxonomy, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	t := &Taxonomy{
		categories: doc.Categories,
		labels:     make(map[string][]string, len(doc.Features)),
		allowed:    make(map[string]map[string]struct{}, len(doc.Features)),
		raw:        json.RawMessage(b),
	}
	for name, rawFeature := range doc.Features {
		var f feature
		if err := json.Unmarshal(rawFeature, &f); err != nil {
			return nil, fmt.Errorf("parse feature %q: %w", name, err)
		}
		labels := make([]string, 0, len(f.Values.SimpleData))
		set := make(map[string]struct{}, len(f.Values.SimpleData))
		for _, item := range f.Values.SimpleData {
			labels = append(labels, item.Label)
			set[item.Label] = struct{}{}
		}
		t.labels[name] = labels
		t.allowed[name] = set
	}
	features, err := json.Marshal(doc.Features)
	if err != nil {
		return nil, err
	}
	t.features = features
	return t, nil
}

// Raw returns the whole document as loaded.
func (t *Taxonomy) Raw() json.RawMessage { return t.raw }

// Features returns the feature section as loaded.
func (t *Taxonomy) Features() json.RawMessage { return t.features }

func (t *Taxonomy) Categories() []Category { return t.categories }

// CategoryNames lists category display names in document order.
func (t *Taxonomy) CategoryNames() []string {
	out := make([]string, 0, len(t.categories))
	for _, c := range t.categories {
		out = append(out, c.Name)
	}
	return out
}

// SubcategoryNames flattens every category's subcategory names.
func (t *Taxonomy) SubcategoryNames() []string {
	var out []string
	for _, c := range t.categories {
		for _, s := range c.Subcategories {
			out = append(out, s.Name)
		}
	}
	return out
}

// Subcategories returns the subcategories of catID.
func (t *Taxonomy) Subcategories(catID string) ([]Subcategory, bool) {
	for _, c := range t.categories {
		if c.CatID == catID {
			return c.Subcategories, true
		}
	}
	return nil, false
}

// Labels returns the allowed labels of a feature in document order.
func (t *Taxonomy) Labels(featureName string) ([]string, bool) {
	l, ok := t.labels[featureName]
	return l, ok
}

// FeatureNames lists the attribute fields, sorted.
func (t *Taxonomy) FeatureNames() []string {
	out := make([]string, 0, len(t.labels))
	for name := range t.labels {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ValidateAttributes checks every attribute is a known feature and every
// selected label belongs to that feature's vocabulary.
func (t *Taxonomy) ValidateAttributes(attrs map[string][]string) error {
	for name, values := range attrs {
		set, ok := t.allowed[name]
		if !ok {
			return apperror.Validation(fmt.Sprintf("unknown offer attribute %q", name))
		}
		for _, v := range values {
			if _, ok := set[v]; !ok {
				return apperror.Validation(fmt.Sprintf("%q is not a valid value for %s", v, name))
			}
		}
	}
	return nil
}
