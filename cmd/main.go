package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rentlabs/rentledger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name: "rentledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/rentledger?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite db dir path", EnvVars: []string{"SQLITE_DIR"}},
			&cli.BoolFlag{Name: "use_sqlite", Value: false, Usage: "run mirror db with sqlite", EnvVars: []string{"USE_SQLITE"}},
			&cli.BoolFlag{Name: "mongo_flag", Value: false, Usage: "run with mongodb store", EnvVars: []string{"MONGO_FLAG"}},
			&cli.StringFlag{Name: "mongo_uri", Value: "mongodb://localhost:27017", Usage: "mongodb uri", EnvVars: []string{"MONGO_URI"}},
			&cli.BoolFlag{Name: "s3_flag", Value: false, Usage: "run with s3 store", EnvVars: []string{"S3_FLAG"}},
			&cli.StringFlag{Name: "s3_acc_key", Value: "", Usage: "s3 access key", EnvVars: []string{"S3_ACC_KEY"}},
			&cli.StringFlag{Name: "s3_secret_key", Value: "", Usage: "s3 secret key", EnvVars: []string{"S3_SECRET_KEY"}},
			&cli.StringFlag{Name: "s3_prefix", Value: "rentledger", Usage: "s3 bucket name prefix", EnvVars: []string{"S3_PREFIX"}},
			&cli.StringFlag{Name: "s3_region", Value: "ap-northeast-1", Usage: "s3 bucket region", EnvVars: []string{"S3_REGION"}},
			&cli.StringFlag{Name: "s3_endpoint", Value: "", Usage: "s3 custom endpoint", EnvVars: []string{"S3_ENDPOINT"}},

			&cli.StringFlag{Name: "owner", Usage: "admin identity address", Required: true, EnvVars: []string{"OWNER"}},
			&cli.StringFlag{Name: "kafka_uri", Value: "", Usage: "kafka broker for status messages, empty disables", EnvVars: []string{"KAFKA_URI"}},
			&cli.BoolFlag{Name: "sig_check", Value: false, Usage: "verify caller signatures", EnvVars: []string{"SIG_CHECK"}},
			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	l := rentledger.New(
		c.String("db_dir"), c.String("mysql"), c.String("sqlite_dir"), c.Bool("use_sqlite"),
		c.Bool("mongo_flag"), c.String("mongo_uri"),
		c.Bool("s3_flag"), c.String("s3_acc_key"), c.String("s3_secret_key"), c.String("s3_prefix"), c.String("s3_region"), c.String("s3_endpoint"),
		c.String("owner"), c.String("kafka_uri"), c.Bool("sig_check"), c.String("port"),
	)
	l.Run()

	<-signals
	l.Close()

	return nil
}
