// Package subscribers lists verified newsletter subscribers from the
// Cognito user pool.
package subscribers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"iglesia/internal/logger"
)

// Subscriber is one verified recipient.
type Subscriber struct {
	Email     string
	Name      string
	FirstName string
}

// userPoolAPI is the Cognito surface the lister uses.
type userPoolAPI interface {
	ListUsers(ctx context.Context, params *cognitoidentityprovider.ListUsersInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUsersOutput, error)
}

// Lister pages through a Cognito user pool.
type Lister struct {
	client userPoolAPI
	poolID string
}

// NewLister returns a Lister for one user pool.
func NewLister(client userPoolAPI, poolID string) *Lister {
	return &Lister{client: client, poolID: poolID}
}

// Verified returns every confirmed user with a verified email address,
// following pagination tokens until the pool is exhausted.
func (l *Lister) Verified(ctx context.Context) ([]Subscriber, error) {
	var subs []Subscriber
	var token *string
	for {
		out, err := l.client.ListUsers(ctx, &cognitoidentityprovider.ListUsersInput{
			UserPoolId:      aws.String(l.poolID),
			PaginationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list users in pool %s: %w", l.poolID, err)
		}
		for _, user := range out.Users {
			if sub, ok := fromUser(user); ok {
				subs = append(subs, sub)
			}
		}
		if out.PaginationToken == nil {
			break
		}
		token = out.PaginationToken
	}
	logger.Info("subscribers listed", "pool", l.poolID, "verified", len(subs))
	return subs, nil
}

// fromUser extracts a subscriber from a Cognito user, requiring a
// verified email.
func fromUser(user types.UserType) (Subscriber, bool) {
	var email, name string
	verified := false
	for _, attr := range user.Attributes {
		switch aws.ToString(attr.Name) {
		case "email":
			email = aws.ToString(attr.Value)
		case "email_verified":
			verified = aws.ToString(attr.Value) == "true"
		case "name":
			name = aws.ToString(attr.Value)
		}
	}
	if email == "" || !verified {
		return Subscriber{}, false
	}
	return Subscriber{Email: email, Name: name, FirstName: FirstName(name)}, true
}

// compoundLeads are first words that form a compound Spanish first name
// with the following word.
var compoundLeads = map[string]bool{
	"maria": true, "maría": true,
	"jose": true, "josé": true,
	"juan": true,
	"ana":  true,
	"luis": true,
}

// FirstName extracts the greeting name from a full name, keeping
// compound first names ("María José") whole.
func FirstName(full string) string {
	fields := strings.Fields(strings.TrimSpace(full))
	if len(fields) == 0 {
		return ""
	}
	if len(fields) >= 2 && compoundLeads[strings.ToLower(fields[0])] {
		return fields[0] + " " + fields[1]
	}
	return fields[0]
}
