package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("gigs")
		if err != nil {
			return err
		}

		collection.Fields.Add(&core.DateField{
			Id:   "date_gig_opens_at",
			Name: "opens_at",
		})
		collection.Fields.Add(&core.DateField{
			Id:   "date_gig_closes_at",
			Name: "closes_at",
		})

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("gigs")
		if err != nil {
			return err
		}

		collection.Fields.RemoveByName("opens_at")
		collection.Fields.RemoveByName("closes_at")

		return app.Save(collection)
	})
}
