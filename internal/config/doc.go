// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package config loads Aesthetica's configuration with Koanf.

Sources are layered, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/aesthetica/config.yaml)
 3. Environment variables, mapped explicitly in envMappings

Example config.yaml:

	server:
	  port: 3001
	  environment: production
	database:
	  url: postgres://clinic:secret@db:5432/clinica_estetica?sslmode=require
	security:
	  jwt_secret: ${generated}
	  cors_origins:
	    - https://app.example.com
	revocation:
	  backend: redis
	  redis_addr: redis:6379

The signing secret, issuer and audience are read once at startup and handed
to the token codec as a struct; nothing downstream reads the environment.

Validate reports every problem at once. In production it refuses short or
placeholder secrets, wildcard CORS origins and the process-local memory
revocation backend (unless explicitly acknowledged).
*/
package config
