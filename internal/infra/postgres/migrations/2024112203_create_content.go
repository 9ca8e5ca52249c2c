package migrations

import _ "embed"

//go:embed 2024112203_create_content.up.sql
var createContentSQL string

func init() {
	Migrations.MustRegister(
		exec(createContentSQL),
		exec(`DROP TABLE IF EXISTS important_questions; DROP TABLE IF EXISTS notes; DROP TABLE IF EXISTS videos`),
	)
}
