package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/adminboard/dashboard-api/internal/core/domain"
)

const usersNS = mtest.TestDb + "." + collectionUsers

func newMockTest(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func userDoc(id primitive.ObjectID, email, name string, createdAt time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "email", Value: email},
		{Key: "name", Value: name},
		{Key: "role", Value: "USER"},
		{Key: "created_at", Value: createdAt},
	}
}

func TestUserRepository_Create(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("assigns id and truncates created_at", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		at := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
		created, err := repo.Create(context.Background(), &domain.User{
			Email:        "alice@example.com",
			PasswordHash: "$2a$12$hash",
			Name:         "Alice",
			Role:         domain.RoleUser,
			CreatedAt:    at,
		})

		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(created.ID))
		assert.True(mt, created.CreatedAt.Equal(at.Truncate(time.Millisecond)))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
		assert.Equal(mt, collectionUsers, evt.Command.Lookup("insert").StringValue())
	})

	mt.Run("duplicate key is a conflict", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: test.users index: uniq_email",
		}))

		_, err := repo.Create(context.Background(), &domain.User{
			Email: "dup@example.com", PasswordHash: "h", Role: domain.RoleUser,
		})
		assert.Equal(mt, domain.ErrUserExists, err)
	})

	mt.Run("other write errors are wrapped", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 121, Message: "Document failed validation",
		}))

		_, err := repo.Create(context.Background(), &domain.User{
			Email: "bad@example.com", PasswordHash: "h", Role: domain.RoleUser,
		})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrUserExists)
		assert.Contains(mt, err.Error(), "insert user")
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

		doc := append(userDoc(id, "bob@example.com", "Bob", at), bson.E{Key: "password_hash", Value: "$2a$12$hash"})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, doc))

		u, err := repo.FindByEmail(context.Background(), "bob@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), u.ID)
		assert.Equal(mt, "bob@example.com", u.Email)
		assert.Equal(mt, "$2a$12$hash", u.PasswordHash)
		assert.Equal(mt, domain.RoleUser, u.Role)
		assert.True(mt, u.CreatedAt.Equal(at))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "bob@example.com", evt.Command.Lookup("filter", "email").StringValue())
	})

	mt.Run("no documents", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(mt, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("sorts newest first and excludes the hash", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		newer := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		older := newer.Add(-time.Hour)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch,
			userDoc(primitive.NewObjectID(), "second@example.com", "Second", newer),
			userDoc(primitive.NewObjectID(), "first@example.com", "", older),
		))

		users, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, users, 2)
		assert.Equal(mt, "second@example.com", users[0].Email)
		assert.Equal(mt, "first@example.com", users[1].Email)
		for _, u := range users {
			assert.Empty(mt, u.PasswordHash)
		}

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)

		sort, err := evt.Command.Lookup("sort").Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, sort, 2)
		assert.Equal(mt, "created_at", sort[0].Key())
		assert.Equal(mt, int64(-1), sort[0].Value().AsInt64())
		assert.Equal(mt, "_id", sort[1].Key())
		assert.Equal(mt, int64(-1), sort[1].Value().AsInt64())

		assert.Equal(mt, int64(0), evt.Command.Lookup("projection", "password_hash").AsInt64())
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		users, err := repo.List(context.Background())
		require.NoError(mt, err)
		assert.Empty(mt, users)
	})
}

func TestUserRepository_PingAndIndexes(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("ping", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.Ping(context.Background()))
	})

	mt.Run("unique email index", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, repo.EnsureIndexes(context.Background()))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "createIndexes", evt.CommandName)

		indexes, err := evt.Command.Lookup("indexes").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, indexes, 2)

		email := indexes[0].Document()
		assert.Equal(mt, "uniq_email", email.Lookup("name").StringValue())
		assert.True(mt, email.Lookup("unique").Boolean())
		assert.Equal(mt, int64(1), email.Lookup("key", "email").AsInt64())
	})
}
