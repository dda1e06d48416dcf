package repository

import (
	"github.com/guialocal/guialocal-backend/internal/docstore"
)

// Collection names.
const (
	BusinessesCollection = "businesses"
	VotesCollection      = "votes"
	ReviewsCollection    = "reviews"
	CampaignsCollection  = "marketing_campaigns"
	CategoriesCollection = "categories"
)

// decodeAll converts snapshots into models, letting setID stamp the document id.
func decodeAll[T any](snaps []docstore.Snapshot, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var item T
		if err := docstore.Decode(snap.Data, &item); err != nil {
			return nil, err
		}
		setID(&item, snap.ID)
		out = append(out, item)
	}
	return out, nil
}
