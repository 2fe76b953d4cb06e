package subscribers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

func user(email, verified, name string) types.UserType {
	return types.UserType{Attributes: []types.AttributeType{
		{Name: aws.String("email"), Value: aws.String(email)},
		{Name: aws.String("email_verified"), Value: aws.String(verified)},
		{Name: aws.String("name"), Value: aws.String(name)},
	}}
}

type fakePool struct {
	pages [][]types.UserType
	calls int
}

func (f *fakePool) ListUsers(_ context.Context, in *cognitoidentityprovider.ListUsersInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUsersOutput, error) {
	page := f.calls
	f.calls++
	out := &cognitoidentityprovider.ListUsersOutput{Users: f.pages[page]}
	if page < len(f.pages)-1 {
		out.PaginationToken = aws.String("next")
	}
	return out, nil
}

func TestVerifiedFollowsPaginationAndFilters(t *testing.T) {
	pool := &fakePool{pages: [][]types.UserType{
		{user("a@x.es", "true", "Ana García"), user("b@x.es", "false", "Bea")},
		{user("c@x.es", "true", "María José Ruiz")},
	}}
	l := NewLister(pool, "pool-1")

	subs, err := l.Verified(context.Background())
	if err != nil {
		t.Fatalf("Verified: %v", err)
	}
	if pool.calls != 2 {
		t.Errorf("calls = %d, want 2 pages", pool.calls)
	}
	if len(subs) != 2 {
		t.Fatalf("subs = %+v, want 2 verified", subs)
	}
	if subs[0].FirstName != "Ana García" {
		// "Ana" is a compound lead, so the second word joins it.
		t.Errorf("first name = %q", subs[0].FirstName)
	}
	if subs[1].FirstName != "María José" {
		t.Errorf("first name = %q", subs[1].FirstName)
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Carlos Pérez", "Carlos"},
		{"maría jesús lópez", "maría jesús"},
		{"José", "José"},
		{"", ""},
		{"  Lucía  ", "Lucía"},
	}
	for _, tt := range tests {
		if got := FirstName(tt.in); got != tt.want {
			t.Errorf("FirstName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
