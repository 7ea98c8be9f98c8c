package config

import "os"

// Server junta la configuración del proceso para que main quede chico.
type Server struct {
	Addr          string
	DBDSN         string
	JWTSigningKey string
	AppName       string
}

// FromEnv arma la config desde variables de entorno:
// - PORT (default 8080)
// - DB_DSN (vacío = repos in-memory, modo dev)
// - JWT_SIGNING_KEY (vacío = sin verifier, headers de debug)
func FromEnv() Server {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	app := os.Getenv("APP_NAME")
	if app == "" {
		app = "dog-blood-donation"
	}

	return Server{
		Addr:          addr,
		DBDSN:         os.Getenv("DB_DSN"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		AppName:       app,
	}
}
