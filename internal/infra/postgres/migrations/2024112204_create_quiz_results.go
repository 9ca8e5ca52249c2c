package migrations

import _ "embed"

// quiz_results keeps no foreign key to quizzes: results outlive deleted quizzes.
//
//go:embed 2024112204_create_quiz_results.up.sql
var createQuizResultsSQL string

func init() {
	Migrations.MustRegister(exec(createQuizResultsSQL), exec(`DROP TABLE IF EXISTS quiz_results`))
}
