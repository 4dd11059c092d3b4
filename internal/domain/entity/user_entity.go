package entity

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the only persisted aggregate. Everything the client studies lives
// inside it: openings, their variations, and openings shared by others.
//
// Password holds the bcrypt hash and is never rendered by Profile.
// Extras keeps top-level fields merged by profile updates.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Password     string             `bson:"password"`
	Language     any                `bson:"language,omitempty"`
	Settings     map[string]any     `bson:"settings,omitempty"`
	UserOpenings Openings           `bson:"userOpenings"`
	Inbox        Openings           `bson:"inbox"`
	Extras       map[string]any     `bson:",inline"`
}

// Profile renders the user for clients, without the password hash.
// Null slots left by an in-flight delete are rendered as null.
func (u *User) Profile() map[string]any {
	out := make(map[string]any, len(u.Extras)+6)
	for k, v := range u.Extras {
		out[k] = v
	}
	out["_id"] = u.ID.Hex()
	out["email"] = u.Email
	if u.Language != nil {
		out["language"] = u.Language
	}
	if u.Settings != nil {
		out["settings"] = u.Settings
	}
	out["userOpenings"] = nonNil(u.UserOpenings)
	out["inbox"] = nonNil(u.Inbox)
	return out
}

// Opening returns the opening at index i, or nil when the slot is empty or out of range.
func (u *User) Opening(i int) *Opening {
	if i < 0 || i >= len(u.UserOpenings) {
		return nil
	}
	return u.UserOpenings[i]
}

func nonNil[T any](s []*T) []*T {
	if s == nil {
		return []*T{}
	}
	return s
}
