// Package auth provides authentication and authorization for the API.
//
// Clients authenticate with HS256 bearer tokens issued at login:
//
//	Authorization: Bearer <token>
//
// Tokens carry the user's id, email and role and expire after
// AUTH_TOKEN_EXPIRY. They are signed with ACCESS_TOKEN_SECRET; when that is
// unset a random secret is generated at startup.
//
// # Configuration
//
//	ACCESS_TOKEN_SECRET=<random string>
//	AUTH_TOKEN_EXPIRY=1h
//	AUTH_BCRYPT_COST=10
//	AUTH_SOCIAL_LOGIN_ENABLED=true
//	AUTH_MAX_LOGIN_ATTEMPTS=5
//	AUTH_RATE_LIMIT_WINDOW=15m
//	AUTH_LOCKOUT_DURATION=30m
//
// # Usage
//
//	tokens, _ := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiry)
//	authService := auth.NewService(userRepo, tokens, cfg.Auth)
//	mw := auth.NewMiddleware(tokens)
//
//	admin := router.Group("/api/dashboard", mw.VerifyToken(), mw.RequireRole(entities.UserRoleAdmin))
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c)
package auth
