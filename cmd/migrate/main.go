package main

import (
	"flag"

	"bidnest/pkg/config"

	"github.com/sirupsen/logrus"
)

func main() {
	down := flag.Bool("down", false, "roll back the last migration instead of applying pending ones")
	dir := flag.String("dir", "migrations", "directory holding the migration files")
	flag.Parse()

	config.LoadSettings()
	config.SetupLogger(&logrus.TextFormatter{FullTimestamp: true})

	// versioned migrations own the schema here
	config.App.AutoMigrate = false
	config.InitDB()

	if *down {
		if err := config.RollbackMigration(*dir); err != nil {
			logrus.Fatal(err)
		}
		return
	}
	if err := config.ExecuteMigrations(*dir); err != nil {
		logrus.Fatal(err)
	}
}
