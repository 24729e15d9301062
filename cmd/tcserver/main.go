/*
Tcserver starts a TunaCalc server and begins listening for new connections.

Usage:

	tcserver [flags]
	tcserver [flags] -l [[ADDRESS]:PORT]

Once started, the TunaCalc server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config via environment var). The flag
argument must be either a full address with port, such as "192.168.0.2:6001", or
just the port preceeded by a colon, such as ":6001".

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
either CLI flags, config file, or environment variable if running in
production.

On startup, a user called "admin" with password "password" is created if no
user with that name exists yet.

The flags are:

	-v, --version
		Give the current version of the TunaCalc server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		TUNACALC_LISTEN_ADDRESS, then the config file, and if that is not given,
		will default to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable TUNACALC_TOKEN_SECRET, then the config file. If no secret is
		specified, a random secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable TUNACALC_DATABASE, then the config
		file, and then an in-memory database.

	-c, --config FILE
		Read settings from the given TOML config file.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/dekarrin/tunacalc/internal/config"
	"github.com/dekarrin/tunacalc/internal/version"
	"github.com/dekarrin/tunacalc/server"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/spf13/pflag"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of TunaCalc server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagConfig  = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (engine v%s)\n", version.ServerCurrent, version.EngineCurrent)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	if _, _, err := net.SplitHostPort(cfg.Server.Listen); err != nil {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}

	srvCfg, err := server.ConfigFrom(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	if srvCfg.TokenSecret == nil {
		srvCfg.TokenSecret, err = server.GenerateSecret()
		if err != nil {
			log.Fatalf("FATAL %s", err.Error())
		}

		// the user should know their tokens will not survive a restart
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	} else if len(srvCfg.TokenSecret) > server.MaxSecretSize {
		// keys would be chopped at 64, so rather than the user thinking they
		// have more security by giving a longer key, refuse to start.
		fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(srvCfg.TokenSecret), server.MaxSecretSize)
		os.Exit(1)
	}

	tcs, err := server.New(srvCfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer tcs.Close()
	log.Printf("DEBUG Server initialized")

	// immediately create the admin user so we have someone we can log in as.
	_, created, err := tcs.EnsureUser(context.Background(), "admin", "password", dao.Admin)
	if err != nil {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(2)
	}
	if created {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}

	log.Printf("INFO  Starting TunaCalc server %s...", version.ServerCurrent)
	if err := tcs.ServeForever(cfg.Server.Listen); err != nil {
		log.Printf("FATAL %v", err)
		tcs.Close()
		os.Exit(1)
	}
}

// loadConfig reads the config file if one was given, applies the environment
// over it, and then the flags over that.
func loadConfig() (config.Config, error) {
	var cfg config.Config

	if *flagConfig != "" {
		var err error
		cfg, err = config.Load(*flagConfig)
		if err != nil {
			return cfg, err
		}
	}

	cfg = cfg.WithEnv()

	if pflag.Lookup("listen").Changed {
		cfg.Server.Listen = *flagListen
	}
	if pflag.Lookup("secret").Changed {
		cfg.Server.Secret = *flagSecret
	}
	if pflag.Lookup("db").Changed {
		cfg.Server.DB = *flagDB
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
