package ports_test

import (
	"testing"

	"github.com/group38/ojweb/internal/adapters/memory"
	"github.com/group38/ojweb/internal/adapters/ojapi"
	redisadapter "github.com/group38/ojweb/internal/adapters/redis"
	mocks "github.com/group38/ojweb/internal/mocks/auth"
	"github.com/group38/ojweb/internal/ports"
	"github.com/group38/ojweb/internal/service"
)

// This test only verifies that adapters and doubles conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.IdentityStore = (*redisadapter.IdentityStore)(nil)
	var _ ports.IdentityStore = (*memory.IdentityStore)(nil)
	var _ ports.IdentityStore = (*mocks.MemoryIdentityStore)(nil)
	var _ ports.LoginUserSource = (*ojapi.UserService)(nil)
	var _ ports.LoginUserSource = (*mocks.StubLoginUserSource)(nil)
	var _ ports.AccountGateway = (*ojapi.Accounts)(nil)
	var _ ports.AccountGateway = (*mocks.StubAccountGateway)(nil)
	var _ ports.SessionState = (*service.SessionHandle)(nil)
	var _ ports.SessionState = (*mocks.FakeSessionState)(nil)
}
