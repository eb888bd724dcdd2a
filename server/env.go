package server

import "github.com/gaborage/go-webapi/config"

const envAliasDev = "dev"

func isDevelopmentEnv(env string) bool {
	return env == config.EnvDevelopment || env == envAliasDev
}
