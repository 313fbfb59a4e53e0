package config

import "github.com/urfave/cli/v3"

// Server holds configuration of the local notification receiver
type Server struct {
	Addr         string
	Secret       string `masq:"secret"`
	RequireNonce bool
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("MATE_RELEASE_ADDR"),
		},
		&cli.StringFlag{
			Name:        "api-secret",
			Usage:       "Shared secret to verify notifications, unsigned requests are accepted when empty",
			Destination: &c.Secret,
			Sources:     cli.EnvVars("API_SECRET"),
		},
		&cli.BoolFlag{
			Name:        "require-nonce",
			Usage:       "Reject requests without nonce header",
			Value:       true,
			Destination: &c.RequireNonce,
			Sources:     cli.EnvVars("MATE_RELEASE_REQUIRE_NONCE"),
		},
	}
}
