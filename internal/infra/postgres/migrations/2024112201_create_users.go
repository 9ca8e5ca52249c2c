package migrations

import _ "embed"

//go:embed 2024112201_create_users.up.sql
var createUsersSQL string

func init() {
	Migrations.MustRegister(exec(createUsersSQL), exec(`DROP TABLE IF EXISTS users`))
}
