package config

import "os"

// EnvFileVar overrides the env file loaded by the binaries.
const EnvFileVar = "BANK_ENV_FILE"

// EnvFiles lists the env files to hand to Load, most specific first:
// $BANK_ENV_FILE when set, then .env.<APP_ENV> when APP_ENV is set, then .env.
func EnvFiles() []string {
	files := make([]string, 0, 3)
	if path := os.Getenv(EnvFileVar); path != "" {
		files = append(files, path)
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		files = append(files, ".env."+env)
	}
	return append(files, ".env")
}
