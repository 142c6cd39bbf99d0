package middleware

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// firebaseNamespace scopes the name-based UUIDs derived from Firebase UIDs.
var firebaseNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://firebase.google.com/uid"))

// IdentityFromFirebaseUID maps a Firebase UID onto the UUID used as the
// profile key. The mapping is stable across restarts.
func IdentityFromFirebaseUID(uid string) uuid.UUID {
	return uuid.NewSHA1(firebaseNamespace, []byte(uid))
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier accepts Firebase ID tokens.
type FirebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier builds a verifier from a service account file. An empty
// path falls back to application default credentials.
func NewFirebaseVerifier(ctx context.Context, credentialsPath string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase auth: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	email, _ := tok.Claims["email"].(string)
	name, _ := tok.Claims["name"].(string)

	return &Principal{
		IdentityID: IdentityFromFirebaseUID(tok.UID),
		Email:      email,
		Name:       name,
	}, nil
}
