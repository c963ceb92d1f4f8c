package run

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/canopyhq/canopy/cmd/util"
)

// bindRunFlagsFunc binds the cobra cmd flags to the equivalent config value being managed
// by viper. This bridges the config between cobra flags and viper flags.
func bindRunFlagsFunc(flags *pflag.FlagSet) func(*cobra.Command, []string) {
	return func(command *cobra.Command, args []string) {
		util.MustBindPFlag("requestTimeout", flags.Lookup("request-timeout"))
		util.MustBindEnv("requestTimeout", "CANOPY_REQUEST_TIMEOUT", "CANOPY_REQUESTTIMEOUT")

		util.MustBindPFlag("http.addr", flags.Lookup("http-addr"))
		util.MustBindEnv("http.addr", "CANOPY_HTTP_ADDR")

		util.MustBindPFlag("http.tls.enabled", flags.Lookup("http-tls-enabled"))
		util.MustBindEnv("http.tls.enabled", "CANOPY_HTTP_TLS_ENABLED")

		util.MustBindPFlag("http.tls.cert", flags.Lookup("http-tls-cert"))
		util.MustBindEnv("http.tls.cert", "CANOPY_HTTP_TLS_CERT")

		util.MustBindPFlag("http.tls.key", flags.Lookup("http-tls-key"))
		util.MustBindEnv("http.tls.key", "CANOPY_HTTP_TLS_KEY")

		util.MustBindPFlag("http.corsAllowedOrigins", flags.Lookup("http-cors-allowed-origins"))
		util.MustBindEnv("http.corsAllowedOrigins", "CANOPY_HTTP_CORS_ALLOWED_ORIGINS", "CANOPY_HTTP_CORSALLOWEDORIGINS")

		util.MustBindPFlag("http.corsAllowedHeaders", flags.Lookup("http-cors-allowed-headers"))
		util.MustBindEnv("http.corsAllowedHeaders", "CANOPY_HTTP_CORS_ALLOWED_HEADERS", "CANOPY_HTTP_CORSALLOWEDHEADERS")

		util.MustBindPFlag("authn.method", flags.Lookup("authn-method"))
		util.MustBindEnv("authn.method", "CANOPY_AUTHN_METHOD")

		util.MustBindPFlag("authn.local.signingKey", flags.Lookup("authn-local-signing-key"))
		util.MustBindEnv("authn.local.signingKey", "CANOPY_AUTHN_LOCAL_SIGNING_KEY", "CANOPY_AUTHN_LOCAL_SIGNINGKEY")

		util.MustBindPFlag("authn.local.issuer", flags.Lookup("authn-local-issuer"))
		util.MustBindEnv("authn.local.issuer", "CANOPY_AUTHN_LOCAL_ISSUER")

		util.MustBindPFlag("authn.local.audience", flags.Lookup("authn-local-audience"))
		util.MustBindEnv("authn.local.audience", "CANOPY_AUTHN_LOCAL_AUDIENCE")

		util.MustBindPFlag("authn.local.tokenTTL", flags.Lookup("authn-local-token-ttl"))
		util.MustBindEnv("authn.local.tokenTTL", "CANOPY_AUTHN_LOCAL_TOKEN_TTL", "CANOPY_AUTHN_LOCAL_TOKENTTL")

		util.MustBindPFlag("authn.local.bcryptCost", flags.Lookup("authn-local-bcrypt-cost"))
		util.MustBindEnv("authn.local.bcryptCost", "CANOPY_AUTHN_LOCAL_BCRYPT_COST", "CANOPY_AUTHN_LOCAL_BCRYPTCOST")

		util.MustBindPFlag("authn.oidc.issuer", flags.Lookup("authn-oidc-issuer"))
		util.MustBindEnv("authn.oidc.issuer", "CANOPY_AUTHN_OIDC_ISSUER")

		util.MustBindPFlag("authn.oidc.issuerAliases", flags.Lookup("authn-oidc-issuer-aliases"))
		util.MustBindEnv("authn.oidc.issuerAliases", "CANOPY_AUTHN_OIDC_ISSUER_ALIASES")

		util.MustBindPFlag("authn.oidc.audience", flags.Lookup("authn-oidc-audience"))
		util.MustBindEnv("authn.oidc.audience", "CANOPY_AUTHN_OIDC_AUDIENCE")

		util.MustBindPFlag("authn.oidc.roleClaim", flags.Lookup("authn-oidc-role-claim"))
		util.MustBindEnv("authn.oidc.roleClaim", "CANOPY_AUTHN_OIDC_ROLE_CLAIM")

		util.MustBindPFlag("authn.preshared.keys", flags.Lookup("authn-preshared-keys"))
		util.MustBindEnv("authn.preshared.keys", "CANOPY_AUTHN_PRESHARED_KEYS")

		util.MustBindPFlag("authn.preshared.role", flags.Lookup("authn-preshared-role"))
		util.MustBindEnv("authn.preshared.role", "CANOPY_AUTHN_PRESHARED_ROLE")

		util.MustBindPFlag("authn.claimsCacheSize", flags.Lookup("authn-claims-cache-size"))
		util.MustBindEnv("authn.claimsCacheSize", "CANOPY_AUTHN_CLAIMS_CACHE_SIZE", "CANOPY_AUTHN_CLAIMSCACHESIZE")

		util.MustBindPFlag("datastore.engine", flags.Lookup("datastore-engine"))
		util.MustBindEnv("datastore.engine", "CANOPY_DATASTORE_ENGINE")

		util.MustBindPFlag("datastore.uri", flags.Lookup("datastore-uri"))
		util.MustBindEnv("datastore.uri", "CANOPY_DATASTORE_URI")

		util.MustBindPFlag("datastore.username", flags.Lookup("datastore-username"))
		util.MustBindEnv("datastore.username", "CANOPY_DATASTORE_USERNAME")

		util.MustBindPFlag("datastore.password", flags.Lookup("datastore-password"))
		util.MustBindEnv("datastore.password", "CANOPY_DATASTORE_PASSWORD")

		util.MustBindPFlag("datastore.maxOpenConns", flags.Lookup("datastore-max-open-conns"))
		util.MustBindEnv("datastore.maxOpenConns", "CANOPY_DATASTORE_MAX_OPEN_CONNS", "CANOPY_DATASTORE_MAXOPENCONNS")

		util.MustBindPFlag("datastore.maxIdleConns", flags.Lookup("datastore-max-idle-conns"))
		util.MustBindEnv("datastore.maxIdleConns", "CANOPY_DATASTORE_MAX_IDLE_CONNS", "CANOPY_DATASTORE_MAXIDLECONNS")

		util.MustBindPFlag("datastore.connMaxIdleTime", flags.Lookup("datastore-conn-max-idle-time"))
		util.MustBindEnv("datastore.connMaxIdleTime", "CANOPY_DATASTORE_CONN_MAX_IDLE_TIME", "CANOPY_DATASTORE_CONNMAXIDLETIME")

		util.MustBindPFlag("datastore.connMaxLifetime", flags.Lookup("datastore-conn-max-lifetime"))
		util.MustBindEnv("datastore.connMaxLifetime", "CANOPY_DATASTORE_CONN_MAX_LIFETIME", "CANOPY_DATASTORE_CONNMAXLIFETIME")

		util.MustBindPFlag("datastore.maxConcurrentReads", flags.Lookup("datastore-max-concurrent-reads"))
		util.MustBindEnv("datastore.maxConcurrentReads", "CANOPY_DATASTORE_MAX_CONCURRENT_READS", "CANOPY_DATASTORE_MAXCONCURRENTREADS")

		util.MustBindPFlag("datastore.maxConcurrentWrites", flags.Lookup("datastore-max-concurrent-writes"))
		util.MustBindEnv("datastore.maxConcurrentWrites", "CANOPY_DATASTORE_MAX_CONCURRENT_WRITES", "CANOPY_DATASTORE_MAXCONCURRENTWRITES")

		util.MustBindPFlag("datastore.maxTxRetries", flags.Lookup("datastore-max-tx-retries"))
		util.MustBindEnv("datastore.maxTxRetries", "CANOPY_DATASTORE_MAX_TX_RETRIES", "CANOPY_DATASTORE_MAXTXRETRIES")

		util.MustBindPFlag("datastore.metrics.enabled", flags.Lookup("datastore-metrics-enabled"))
		util.MustBindEnv("datastore.metrics.enabled", "CANOPY_DATASTORE_METRICS_ENABLED")

		util.MustBindPFlag("log.format", flags.Lookup("log-format"))
		util.MustBindEnv("log.format", "CANOPY_LOG_FORMAT")

		util.MustBindPFlag("log.level", flags.Lookup("log-level"))
		util.MustBindEnv("log.level", "CANOPY_LOG_LEVEL")

		util.MustBindPFlag("log.timestampFormat", flags.Lookup("log-timestamp-format"))
		util.MustBindEnv("log.timestampFormat", "CANOPY_LOG_TIMESTAMP_FORMAT")

		util.MustBindPFlag("trace.enabled", flags.Lookup("trace-enabled"))
		util.MustBindEnv("trace.enabled", "CANOPY_TRACE_ENABLED")

		util.MustBindPFlag("trace.otlp.endpoint", flags.Lookup("trace-otlp-endpoint"))
		util.MustBindEnv("trace.otlp.endpoint", "CANOPY_TRACE_OTLP_ENDPOINT")

		util.MustBindPFlag("trace.otlp.tls.enabled", flags.Lookup("trace-otlp-tls-enabled"))
		util.MustBindEnv("trace.otlp.tls.enabled", "CANOPY_TRACE_OTLP_TLS_ENABLED")

		util.MustBindPFlag("trace.sampleRatio", flags.Lookup("trace-sample-ratio"))
		util.MustBindEnv("trace.sampleRatio", "CANOPY_TRACE_SAMPLE_RATIO")

		util.MustBindPFlag("trace.serviceName", flags.Lookup("trace-service-name"))
		util.MustBindEnv("trace.serviceName", "CANOPY_TRACE_SERVICE_NAME")

		util.MustBindPFlag("metrics.enabled", flags.Lookup("metrics-enabled"))
		util.MustBindEnv("metrics.enabled", "CANOPY_METRICS_ENABLED")

		util.MustBindPFlag("metrics.addr", flags.Lookup("metrics-addr"))
		util.MustBindEnv("metrics.addr", "CANOPY_METRICS_ADDR")

		util.MustBindPFlag("seed.enabled", flags.Lookup("seed-enabled"))
		util.MustBindEnv("seed.enabled", "CANOPY_SEED_ENABLED")

		util.MustBindPFlag("seed.adminUsername", flags.Lookup("seed-admin-username"))
		util.MustBindEnv("seed.adminUsername", "CANOPY_SEED_ADMIN_USERNAME")

		util.MustBindPFlag("seed.adminPassword", flags.Lookup("seed-admin-password"))
		util.MustBindEnv("seed.adminPassword", "CANOPY_SEED_ADMIN_PASSWORD")

		util.MustBindPFlag("seed.userUsername", flags.Lookup("seed-user-username"))
		util.MustBindEnv("seed.userUsername", "CANOPY_SEED_USER_USERNAME")

		util.MustBindPFlag("seed.userPassword", flags.Lookup("seed-user-password"))
		util.MustBindEnv("seed.userPassword", "CANOPY_SEED_USER_PASSWORD")
	}
}
