/*
Package app wires the campus backend together.

LoadConfig reads a [Config] from the environment, loading a .env file first if one exists.
New builds every component from it: loggers, the envelope responder, sessions, cookies,
uploads, the professor resource and the router.
Run serves until its context ends or the process is signalled:

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
*/
package app
