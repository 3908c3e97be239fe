package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"portfoliodesk/cmd/refresher"
	"portfoliodesk/src/database"
	"portfoliodesk/src/server"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Portfoliodesk CMD"
	app.Usage = "The Portfoliodesk command line interface"

	app.Commands = []cli.Command{
		serverCMD,
		refresherCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	serverCMD = cli.Command{
		Name:        "server",
		Usage:       "run API server",
		Action:      serverAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the portfolio metrics API server`,
	}
	refresherCMD = cli.Command{
		Name:        "refresher",
		Usage:       "run snapshot refresher",
		Action:      refresherAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Materialize daily snapshots and warm metric caches`,
	}
)

func serverAction(_ *cli.Context) error {

	logrus.Info("Starting server CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	server.StartServer(os.Getenv("SERVER_PORT"))

	return nil
}

func refresherAction(_ *cli.Context) error {

	logrus.Info("Starting refresher CMD")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	worker := &refresher.Refresher{
		Log: logrus.WithField("cmd", "refresher"),
		DB:  database.MainDB,
	}

	if err := worker.Start(); err != nil {
		logrus.WithError(err).Error("Starting refresher CMD")
		return err
	}

	return nil
}
