package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/songkeeper/internal/flagx"
)

var knownFlags = []string{
	"-a", "-g", "-d",
	"-m", "-mu", "-mdb", "-su", "-sns", "-sdb", "-suser", "-spass",
	"-s", "-t", "-n", "-l",
	"-u", "-p", "-b", "-r", "-e",
}

// parseFlags overlays command-line flags onto cfg.
//
//	-a string   HTTP bind address
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN
//	-m string   document backend: mongo | surrealdb
//	-mu/-mdb    MongoDB URI and database
//	-su/-sns/-sdb/-suser/-spass   SurrealDB URL, namespace, database, credentials
//	-s string   token signing secret
//	-t int      token validity, minutes
//	-n int      song listing page size
//	-l string   log backend: slog | zap
//	-u/-p/-b/-r/-e   S3 user, password, bucket, region, endpoint
//
// Unknown arguments (including -c) are filtered out first so the flag set
// never trips over them.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("songkeeper", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddrHTTP, "a", cfg.EndpointAddrHTTP, "HTTP bind address")
	fs.StringVar(&cfg.EndpointAddrGRPC, "g", cfg.EndpointAddrGRPC, "gRPC health bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")

	fs.StringVar(&cfg.DocumentBackend, "m", cfg.DocumentBackend, "document backend (mongo|surrealdb)")
	fs.StringVar(&cfg.MongoURI, "mu", cfg.MongoURI, "MongoDB URI")
	fs.StringVar(&cfg.MongoDatabase, "mdb", cfg.MongoDatabase, "MongoDB database")
	fs.StringVar(&cfg.SurrealURL, "su", cfg.SurrealURL, "SurrealDB URL")
	fs.StringVar(&cfg.SurrealNamespace, "sns", cfg.SurrealNamespace, "SurrealDB namespace")
	fs.StringVar(&cfg.SurrealDatabase, "sdb", cfg.SurrealDatabase, "SurrealDB database")
	fs.StringVar(&cfg.SurrealUser, "suser", cfg.SurrealUser, "SurrealDB user")
	fs.StringVar(&cfg.SurrealPassword, "spass", cfg.SurrealPassword, "SurrealDB password")

	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "token signing secret")
	validity := fs.Int("t", int(cfg.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.IntVar(&cfg.PageSize, "n", cfg.PageSize, "song listing page size")
	fs.StringVar(&cfg.LogBackend, "l", cfg.LogBackend, "log backend (slog|zap)")

	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "r", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// only an explicit -t overrides, so sub-minute values from a file survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.TokenValidityDuration = time.Duration(*validity) * time.Minute
		}
	})
	return nil
}
