package model

import "time"

// Role names stored in the users table and carried in JWT claims.  The
// service trusts the decoded role on every call; authorization decisions
// are made against these values in the authz package.
const (
    RoleAdmin   = "ADMIN"
    RoleStaff   = "STAFF"
    RoleStudent = "STUDENT"
)

// ValidRole reports whether r is one of the three campus roles.
func ValidRole(r string) bool {
    return r == RoleAdmin || r == RoleStaff || r == RoleStudent
}

// User represents an application user record as stored in the `users`
// table.  Handlers never expose PasswordHash; response types carry only
// the public fields.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Name         – display name shown on dashboards.
//  PasswordHash – bcrypt hashed password.
//  Role         – one of ADMIN, STAFF, STUDENT.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    Name         string    // users.name
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user and contains metadata for expiry and revocation.
// The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
