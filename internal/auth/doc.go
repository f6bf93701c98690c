// Package auth provides credential handling and bearer-token authentication.
//
// Passwords are hashed with bcrypt through a Hasher that caps concurrent
// hashing work. A successful login yields an HS256 access token whose
// subject is the user ID and whose jti is used for revocation on logout.
//
// # Configuration
//
//	AUTH_TOKEN_SECRET=<at least 32 bytes>  # Generated at startup if empty
//	AUTH_TOKEN_TTL=1h                      # Access token lifetime
//	AUTH_TOKEN_ISSUER=taskmanager          # iss claim
//	AUTH_BCRYPT_COST=12                    # bcrypt cost factor
//	AUTH_HASH_CONCURRENCY=4                # Parallel bcrypt operations
//	AUTH_HASH_TIMEOUT=5s                   # Max wait for a hashing slot
//	REVOCATION_REDIS_URL=redis://...       # Shared denylist, in-memory if empty
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	tokens, _ := auth.NewTokenManager([]byte(secret), cfg.Auth.TokenIssuer)
//	service := auth.NewService(usersRepo, hasher, tokens, denylist, cfg.Auth)
//	protected.Use(auth.NewMiddleware(tokens, denylist).Handler())
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c)
package auth
