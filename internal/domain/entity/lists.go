package entity

import (
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Openings is a list of openings as stored on a user.
type Openings []*Opening

// Variations is the list of lines nested in an opening.
type Variations []*Variation

// UnmarshalBSONValue also accepts an embedded document keyed by index. MongoDB
// writes one when an index path is set on a missing list.
func (l *Openings) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	out, err := decodeList[Opening](t, data)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

func (l *Variations) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	out, err := decodeList[Variation](t, data)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

func decodeList[T any](t bsontype.Type, data []byte) ([]*T, error) {
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		return nil, nil
	case bson.TypeArray:
		var out []*T
		if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&out); err != nil {
			return nil, err
		}
		return out, nil
	case bson.TypeEmbeddedDocument:
		elems, err := bson.Raw(data).Elements()
		if err != nil {
			return nil, err
		}
		var out []*T
		for _, e := range elems {
			idx, err := strconv.Atoi(e.Key())
			if err != nil || idx < 0 {
				continue
			}
			for len(out) <= idx {
				out = append(out, nil)
			}
			v := e.Value()
			if v.Type == bson.TypeNull {
				continue
			}
			item := new(T)
			if err := v.Unmarshal(item); err != nil {
				return nil, err
			}
			out[idx] = item
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot decode bson %s into a list", t)
	}
}

// EnsureLists replaces nil lists with empty ones so they are stored as
// arrays. Index updates on a stored array pad it instead of creating a
// document.
func (u *User) EnsureLists() {
	if u.UserOpenings == nil {
		u.UserOpenings = Openings{}
	}
	if u.Inbox == nil {
		u.Inbox = Openings{}
	}
	u.UserOpenings.EnsureLists()
	u.Inbox.EnsureLists()
}

func (l Openings) EnsureLists() {
	for _, o := range l {
		if o != nil {
			o.EnsureLists()
		}
	}
}

func (o *Opening) EnsureLists() {
	if o.Variations == nil {
		o.Variations = Variations{}
	}
}
