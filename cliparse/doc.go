// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Every setting can come from a flag or an environment variable. Flags take
precedence, then the environment, then the defaults below.

	-p                      PORT                    3318
	-d                      DATABASE_URL            (required)
	-t                      DATABASE_TYPE           sqlite
	-site-url               SITE_URL                http://localhost:3000
	-webhook-url            WEBHOOK_URL
	-kafka-brokers          KAFKA_BROKERS           (comma-separated)
	-kafka-topic            KAFKA_TOPIC             feedback.completed
	-redis-url              REDIS_URL
	-allowed-origins        ALLOWED_ORIGINS         (comma-separated)
	-trust-proxy            TRUST_PROXY             false
	-log-level              LOG_LEVEL               info
	-dispatch-interval      DISPATCH_INTERVAL       15s
	-dispatch-max-attempts  DISPATCH_MAX_ATTEMPTS   8
	-submit-rate            SUBMIT_RATE_PER_MIN     10

An empty KAFKA_BROKERS disables Kafka events, an empty REDIS_URL disables
the public form cache, and an empty ALLOWED_ORIGINS allows any origin. TRUST_PROXY makes the
client address (logging, rate limiting) come from X-Forwarded-For or
X-Real-IP; leave it off unless a reverse proxy sets those headers.
*/
package cliparse
