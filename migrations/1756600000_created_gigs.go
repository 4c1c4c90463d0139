package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `[
			{
				"id": "pbc_gigs_000001",
				"name": "gigs",
				"type": "base",
				"system": false,
				"listRule": "",
				"viewRule": "",
				"createRule": "@request.auth.id != ''",
				"updateRule": "posted_by = @request.auth.id",
				"deleteRule": "posted_by = @request.auth.id",
				"fields": [
					{
						"autogeneratePattern": "[a-z0-9]{15}",
						"hidden": false,
						"id": "text_gig_id",
						"max": 15,
						"min": 15,
						"name": "id",
						"pattern": "^[a-z0-9]+$",
						"presentable": false,
						"primaryKey": true,
						"required": true,
						"system": true,
						"type": "text"
					},
					{
						"autogeneratePattern": "",
						"hidden": false,
						"id": "text_gig_title",
						"max": 200,
						"min": 1,
						"name": "title",
						"pattern": "",
						"presentable": true,
						"primaryKey": false,
						"required": true,
						"system": false,
						"type": "text"
					},
					{
						"autogeneratePattern": "",
						"hidden": false,
						"id": "text_gig_desc",
						"max": 5000,
						"min": 0,
						"name": "description",
						"pattern": "",
						"presentable": false,
						"primaryKey": false,
						"required": false,
						"system": false,
						"type": "text"
					},
					{
						"cascadeDelete": false,
						"collectionId": "_pb_users_auth_",
						"hidden": false,
						"id": "rel_gig_poster",
						"maxSelect": 1,
						"minSelect": 1,
						"name": "posted_by",
						"presentable": false,
						"required": true,
						"system": false,
						"type": "relation"
					},
					{
						"hidden": false,
						"id": "date_gig_date",
						"max": "",
						"min": "",
						"name": "date",
						"presentable": false,
						"required": true,
						"system": false,
						"type": "date"
					},
					{
						"autogeneratePattern": "",
						"hidden": false,
						"id": "text_gig_start",
						"max": 8,
						"min": 0,
						"name": "start_time",
						"pattern": "",
						"presentable": false,
						"primaryKey": false,
						"required": false,
						"system": false,
						"type": "text"
					},
					{
						"autogeneratePattern": "",
						"hidden": false,
						"id": "text_gig_end",
						"max": 8,
						"min": 0,
						"name": "end_time",
						"pattern": "",
						"presentable": false,
						"primaryKey": false,
						"required": false,
						"system": false,
						"type": "text"
					},
					{
						"hidden": false,
						"id": "num_gig_price",
						"max": null,
						"min": 0,
						"name": "price",
						"onlyInt": false,
						"presentable": false,
						"required": false,
						"system": false,
						"type": "number"
					},
					{
						"autogeneratePattern": "",
						"hidden": false,
						"id": "text_gig_currency",
						"max": 3,
						"min": 0,
						"name": "currency",
						"pattern": "",
						"presentable": false,
						"primaryKey": false,
						"required": false,
						"system": false,
						"type": "text"
					},
					{
						"hidden": false,
						"id": "sel_gig_category",
						"maxSelect": 1,
						"name": "category",
						"presentable": false,
						"required": true,
						"system": false,
						"type": "select",
						"values": [
							"individual-musician",
							"full-band",
							"client-band-creation",
							"mc",
							"dj",
							"vocalist"
						]
					},
					{
						"hidden": false,
						"id": "bool_gig_taken",
						"name": "is_taken",
						"presentable": false,
						"required": false,
						"system": false,
						"type": "bool"
					},
					{
						"hidden": false,
						"id": "bool_gig_pending",
						"name": "is_pending",
						"presentable": false,
						"required": false,
						"system": false,
						"type": "bool"
					},
					{
						"hidden": false,
						"id": "json_gig_interest",
						"maxSize": 100000,
						"name": "interested_users",
						"presentable": false,
						"required": false,
						"system": false,
						"type": "json"
					},
					{
						"hidden": false,
						"id": "json_gig_roles",
						"maxSize": 500000,
						"name": "band_roles",
						"presentable": false,
						"required": false,
						"system": false,
						"type": "json"
					},
					{
						"hidden": false,
						"id": "json_gig_band_apps",
						"maxSize": 500000,
						"name": "band_applications",
						"presentable": false,
						"required": false,
						"system": false,
						"type": "json"
					},
					{
						"hidden": false,
						"id": "num_gig_max_slots",
						"max": null,
						"min": 0,
						"name": "max_slots",
						"onlyInt": true,
						"presentable": false,
						"required": false,
						"system": false,
						"type": "number"
					},
					{
						"hidden": false,
						"id": "autodate_gig_created",
						"name": "created",
						"onCreate": true,
						"onUpdate": false,
						"presentable": false,
						"system": false,
						"type": "autodate"
					},
					{
						"hidden": false,
						"id": "autodate_gig_updated",
						"name": "updated",
						"onCreate": true,
						"onUpdate": true,
						"presentable": false,
						"system": false,
						"type": "autodate"
					}
				],
				"indexes": [
					"CREATE INDEX idx_gigs_category ON gigs (category)",
					"CREATE INDEX idx_gigs_is_taken ON gigs (is_taken)"
				]
			}
		]`

		return app.ImportCollectionsByMarshaledJSON([]byte(jsonData), false)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("gigs")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
