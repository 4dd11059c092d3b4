package entity

import "encoding/json"

// Opening is one entry of a user's opening tree, or a shared copy in an inbox.
// Fields the client sends beyond the known ones (moves, colors, ...) are kept in Extras.
type Opening struct {
	Name         string         `bson:"name" json:"name"`
	Archived     bool           `bson:"archived" json:"archived"`
	Variations   Variations     `bson:"variations" json:"variations"`
	Comments     map[string]any `bson:"comments,omitempty" json:"comments,omitempty"`
	PdfBoards    map[string]any `bson:"pdfBoards,omitempty" json:"pdfBoards,omitempty"`
	CreatorEmail string         `bson:"creatorEmail,omitempty" json:"creatorEmail,omitempty"`
	PdfURL       string         `bson:"pdfUrl,omitempty" json:"pdfUrl,omitempty"`
	Extras       map[string]any `bson:",inline" json:"-"`
}

var openingKeys = []string{"name", "archived", "variations", "comments", "pdfBoards", "creatorEmail", "pdfUrl"}

// Variation is a named line nested in an Opening.
type Variation struct {
	Name     string         `bson:"name" json:"name"`
	Subname  string         `bson:"subname,omitempty" json:"subname,omitempty"`
	Archived bool           `bson:"archived" json:"archived"`
	Extras   map[string]any `bson:",inline" json:"-"`
}

var variationKeys = []string{"name", "subname", "archived"}

type openingJSON Opening

func (o Opening) MarshalJSON() ([]byte, error) {
	if o.Variations == nil {
		o.Variations = Variations{}
	}
	return marshalWithExtras(openingJSON(o), o.Extras)
}

func (o *Opening) UnmarshalJSON(b []byte) error {
	var p openingJSON
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extras, err := splitExtras(b, openingKeys)
	if err != nil {
		return err
	}
	p.Extras = extras
	*o = Opening(p)
	return nil
}

type variationJSON Variation

func (v Variation) MarshalJSON() ([]byte, error) {
	return marshalWithExtras(variationJSON(v), v.Extras)
}

func (v *Variation) UnmarshalJSON(b []byte) error {
	var p variationJSON
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extras, err := splitExtras(b, variationKeys)
	if err != nil {
		return err
	}
	p.Extras = extras
	*v = Variation(p)
	return nil
}

func marshalWithExtras(known any, extras map[string]any) ([]byte, error) {
	b, err := json.Marshal(known)
	if err != nil || len(extras) == 0 {
		return b, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range extras {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

func splitExtras(b []byte, known []string) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}
