// Package memory is an in-process users collection with the same update
// semantics as the MongoDB backend ($set, $unset, $push, $pull null). It
// backs local development (STORE_DRIVER=memory) and the handler tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	"github.com/oksasatya/chessup-server/internal/domain/repository"
)

// ErrPathConflict mirrors the server-side error MongoDB raises when an update
// path runs through a null or scalar value, or a push/pull targets a non-array.
var ErrPathConflict = errors.New("update path conflicts with existing value")

type UserRepository struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]map[string]any
	order []primitive.ObjectID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{docs: map[primitive.ObjectID]map[string]any{}}
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		doc := r.docs[id]
		if e, ok := doc["email"].(string); ok && e == email {
			return fromDoc(doc)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return fromDoc(doc)
}

func (r *UserRepository) FindAll(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*entity.User, 0, len(r.order))
	for _, id := range r.order {
		u, err := fromDoc(r.docs[id])
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) Insert(_ context.Context, u *entity.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(u)
}

func (r *UserRepository) InsertMany(_ context.Context, users []*entity.User) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(users))
	for _, u := range users {
		id, err := r.insert(u)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *UserRepository) insert(u *entity.User) (string, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, dup := r.docs[u.ID]; dup {
		return "", fmt.Errorf("duplicate _id %s", u.ID.Hex())
	}
	u.EnsureLists()
	doc, err := toDoc(u)
	if err != nil {
		return "", err
	}
	r.docs[u.ID] = doc
	r.order = append(r.order, u.ID)
	return u.ID.Hex(), nil
}

func (r *UserRepository) SetField(ctx context.Context, id string, path docpath.Path, value any) error {
	return r.SetFields(ctx, id, []repository.FieldValue{{Path: path, Value: value}})
}

func (r *UserRepository) SetFields(_ context.Context, id string, fields []repository.FieldValue) error {
	values := make([]any, len(fields))
	for i, f := range fields {
		v, err := normalizeValue(f.Value)
		if err != nil {
			return err
		}
		values[i] = v
	}
	return r.update(id, func(doc map[string]any) error {
		for i, f := range fields {
			if _, err := setIn(doc, true, f.Path.Segments(), func(any, bool) (any, error) {
				return values[i], nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) UnsetField(_ context.Context, id string, path docpath.Path) error {
	return r.update(id, func(doc map[string]any) error {
		unsetIn(doc, path.Segments())
		return nil
	})
}

func (r *UserRepository) PushField(_ context.Context, id string, path docpath.Path, value any) error {
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}
	return r.update(id, func(doc map[string]any) error {
		_, err := setIn(doc, true, path.Segments(), func(cur any, exists bool) (any, error) {
			if !exists {
				return []any{v}, nil
			}
			arr, ok := cur.([]any)
			if !ok {
				return nil, ErrPathConflict
			}
			return append(arr, v), nil
		})
		return err
	})
}

func (r *UserRepository) PullNulls(_ context.Context, id string, path docpath.Path) error {
	return r.update(id, func(doc map[string]any) error {
		cur, ok := lookup(doc, path.Segments())
		if !ok {
			return nil
		}
		arr, isArr := cur.([]any)
		if !isArr {
			return ErrPathConflict
		}
		kept := make([]any, 0, len(arr))
		for _, e := range arr {
			if e != nil {
				kept = append(kept, e)
			}
		}
		_, err := setIn(doc, true, path.Segments(), func(any, bool) (any, error) { return kept, nil })
		return err
	})
}

// update applies fn to a copy of the document and commits only if fn succeeds,
// so each call is all-or-nothing like a single MongoDB update.
func (r *UserRepository) update(id string, fn func(doc map[string]any) error) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[oid]
	if !ok {
		return repository.ErrNotFound
	}
	work := normalize(doc).(map[string]any)
	if err := fn(work); err != nil {
		return err
	}
	r.docs[oid] = work
	return nil
}

// setIn walks segs from node, creating missing containers, and replaces the
// leaf with whatever leaf returns. Arrays are padded with nulls when the
// index is past the end.
func setIn(node any, exists bool, segs []string, leaf func(cur any, exists bool) (any, error)) (any, error) {
	if len(segs) == 0 {
		return leaf(node, exists)
	}
	if !exists {
		node = map[string]any{}
	}
	switch n := node.(type) {
	case map[string]any:
		child, ok := n[segs[0]]
		v, err := setIn(child, ok, segs[1:], leaf)
		if err != nil {
			return nil, err
		}
		n[segs[0]] = v
		return n, nil
	case []any:
		idx, err := strconv.Atoi(segs[0])
		if err != nil || idx < 0 {
			return nil, ErrPathConflict
		}
		had := idx < len(n)
		for len(n) <= idx {
			n = append(n, nil)
		}
		v, err := setIn(n[idx], had, segs[1:], leaf)
		if err != nil {
			return nil, err
		}
		n[idx] = v
		return n, nil
	default:
		return nil, ErrPathConflict
	}
}

// unsetIn removes the leaf; array slots are nulled rather than removed.
func unsetIn(node any, segs []string) {
	if len(segs) == 0 {
		return
	}
	last := len(segs) == 1
	switch n := node.(type) {
	case map[string]any:
		if last {
			delete(n, segs[0])
			return
		}
		if child, ok := n[segs[0]]; ok {
			unsetIn(child, segs[1:])
		}
	case []any:
		idx, err := strconv.Atoi(segs[0])
		if err != nil || idx < 0 || idx >= len(n) {
			return
		}
		if last {
			n[idx] = nil
			return
		}
		unsetIn(n[idx], segs[1:])
	}
}

func lookup(node any, segs []string) (any, bool) {
	for _, seg := range segs {
		switch n := node.(type) {
		case map[string]any:
			child, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = child
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

func toDoc(u *entity.User) (map[string]any, error) {
	raw, err := bson.Marshal(u)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := decode(raw, &m); err != nil {
		return nil, err
	}
	return normalize(m).(map[string]any), nil
}

func fromDoc(doc map[string]any) (*entity.User, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	u := &entity.User{}
	if err := decode(raw, u); err != nil {
		return nil, err
	}
	return u, nil
}

// normalizeValue runs v through BSON so stored values look exactly like
// values read back from MongoDB (struct tags applied, inline extras merged).
func normalizeValue(v any) (any, error) {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := decode(raw, &m); err != nil {
		return nil, err
	}
	return normalize(m["v"]), nil
}

func decode(raw []byte, out any) error {
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(raw))
	if err != nil {
		return err
	}
	dec.DefaultDocumentM()
	return dec.Decode(out)
}

// normalize deep-copies v into plain maps and slices.
func normalize(v any) any {
	switch x := v.(type) {
	case primitive.M:
		return normalizeMap(x)
	case map[string]any:
		return normalizeMap(x)
	case primitive.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.A:
		return normalizeSlice(x)
	case []any:
		return normalizeSlice(x)
	default:
		return v
	}
}

func normalizeMap(x map[string]any) map[string]any {
	m := make(map[string]any, len(x))
	for k, e := range x {
		m[k] = normalize(e)
	}
	return m
}

func normalizeSlice(x []any) []any {
	s := make([]any, len(x))
	for i, e := range x {
		s[i] = normalize(e)
	}
	return s
}

var _ repository.UserRepository = (*UserRepository)(nil)
