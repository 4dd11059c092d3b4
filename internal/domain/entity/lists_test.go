package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUserDecode_IndexKeyedDocumentsAsLists(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"email": "a@x.com",
		"userOpenings": bson.M{
			"2": bson.M{"name": "French"},
			"0": bson.M{"name": "x", "variations": bson.M{"1": bson.M{"name": "Winawer", "archived": true}}},
		},
		"inbox": nil,
	})
	require.NoError(t, err)

	var u User
	require.NoError(t, bson.Unmarshal(raw, &u))
	require.Len(t, u.UserOpenings, 3)
	assert.Equal(t, "x", u.UserOpenings[0].Name)
	assert.Nil(t, u.UserOpenings[1])
	assert.Equal(t, "French", u.UserOpenings[2].Name)
	require.Len(t, u.UserOpenings[0].Variations, 2)
	assert.Nil(t, u.UserOpenings[0].Variations[0])
	assert.True(t, u.UserOpenings[0].Variations[1].Archived)
	assert.Nil(t, u.Inbox)
}

func TestUserDecode_Arrays(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"email":        "a@x.com",
		"userOpenings": bson.A{bson.M{"name": "Italian", "moves": bson.A{"e4"}}, nil},
		"inbox":        bson.A{},
	})
	require.NoError(t, err)

	var u User
	require.NoError(t, bson.Unmarshal(raw, &u))
	require.Len(t, u.UserOpenings, 2)
	assert.Equal(t, "Italian", u.UserOpenings[0].Name)
	assert.Contains(t, u.UserOpenings[0].Extras, "moves")
	assert.Nil(t, u.UserOpenings[1])
	assert.NotNil(t, u.Inbox)
	assert.Empty(t, u.Inbox)
}

func TestUserDecode_ScalarListFails(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"email": "a@x.com", "userOpenings": "nope"})
	require.NoError(t, err)
	var u User
	assert.Error(t, bson.Unmarshal(raw, &u))
}

func TestEnsureLists(t *testing.T) {
	u := &User{UserOpenings: Openings{{Name: "A"}, nil}}
	u.EnsureLists()
	assert.NotNil(t, u.Inbox)
	assert.NotNil(t, u.UserOpenings[0].Variations)

	raw, err := bson.Marshal(u)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.IsType(t, bson.A{}, m["inbox"])
	assert.Empty(t, m["inbox"])
}
