package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/healthcare-api/internal/apperr"
	"github.com/harentsoaR/healthcare-api/internal/models"
	"github.com/harentsoaR/healthcare-api/internal/store"
)

// people resolves the users referenced by a batch of records in one lookup.
type people map[primitive.ObjectID]*models.User

func loadPeople(ctx context.Context, users store.UserStore, ids []primitive.ObjectID) (people, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return people{}, nil
	}

	found, err := users.FindUsersByIDs(ctx, unique)
	if err != nil {
		return nil, apperr.StoreFailure(err)
	}
	return people(found), nil
}

// summary is nil when the user has since been deleted.
func (p people) summary(id primitive.ObjectID) *models.UserSummary {
	u, ok := p[id]
	if !ok {
		return nil
	}
	s := u.Summary()
	return &s
}

func parseID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(what + " not found")
	}
	return id, nil
}
