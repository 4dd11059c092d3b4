package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	"github.com/oksasatya/chessup-server/internal/domain/repository"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database, collection string) *UserRepository {
	return &UserRepository{coll: db.Collection(collection)}
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	u := &entity.User{}
	if err := r.coll.FindOne(ctx, filter).Decode(u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []*entity.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *entity.User) (string, error) {
	u.EnsureLists()
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	u.ID = oid
	return oid.Hex(), nil
}

func (r *UserRepository) InsertMany(ctx context.Context, users []*entity.User) ([]string, error) {
	if len(users) == 0 {
		return nil, nil
	}
	docs := make([]interface{}, len(users))
	for i, u := range users {
		u.EnsureLists()
		docs[i] = u
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.InsertedIDs))
	for i, v := range res.InsertedIDs {
		oid, ok := v.(primitive.ObjectID)
		if !ok {
			return nil, errors.New("unexpected inserted id type")
		}
		users[i].ID = oid
		ids = append(ids, oid.Hex())
	}
	return ids, nil
}

func (r *UserRepository) SetField(ctx context.Context, id string, path docpath.Path, value any) error {
	return r.updateOne(ctx, id, setUpdate(repository.FieldValue{Path: path, Value: value}))
}

func (r *UserRepository) SetFields(ctx context.Context, id string, fields []repository.FieldValue) error {
	if len(fields) == 0 {
		return nil
	}
	return r.updateOne(ctx, id, setUpdate(fields...))
}

func (r *UserRepository) UnsetField(ctx context.Context, id string, path docpath.Path) error {
	return r.updateOne(ctx, id, unsetUpdate(path))
}

func (r *UserRepository) PushField(ctx context.Context, id string, path docpath.Path, value any) error {
	return r.updateOne(ctx, id, pushUpdate(path, value))
}

func (r *UserRepository) PullNulls(ctx context.Context, id string, path docpath.Path) error {
	return r.updateOne(ctx, id, pullNullsUpdate(path))
}

func (r *UserRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func setUpdate(fields ...repository.FieldValue) bson.M {
	set := bson.M{}
	for _, f := range fields {
		set[f.Path.String()] = f.Value
	}
	return bson.M{"$set": set}
}

func unsetUpdate(path docpath.Path) bson.M {
	return bson.M{"$unset": bson.M{path.String(): 1}}
}

func pushUpdate(path docpath.Path, value any) bson.M {
	return bson.M{"$push": bson.M{path.String(): value}}
}

func pullNullsUpdate(path docpath.Path) bson.M {
	return bson.M{"$pull": bson.M{path.String(): nil}}
}

var _ repository.UserRepository = (*UserRepository)(nil)
