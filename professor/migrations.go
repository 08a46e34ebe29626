package professor

import (
	"github.com/myschool/campus/postgres"
	"gorm.io/gorm"
)

// Migrations create the tables this package reads and writes.
var Migrations = []postgres.Migration{
	{
		Key: "0001-create-professor",
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS professor (
					profno   SERIAL PRIMARY KEY,
					name     varchar(20) NOT NULL,
					userid   varchar(20) NOT NULL,
					position varchar(20) NOT NULL,
					sal      integer NOT NULL,
					hiredate date NOT NULL,
					comm     integer,
					deptno   integer NOT NULL,
					CONSTRAINT professor_userid UNIQUE (userid)
				)
			`).Error
		},
	},
	{
		Key: "0002-index-professor-name",
		Executor: func(tx *gorm.DB) error {
			return tx.Exec(`CREATE INDEX IF NOT EXISTS professor_name_idx ON professor (name)`).Error
		},
	},
}
