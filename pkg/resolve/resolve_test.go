package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/rpcgen/pkg/decl"
	"github.com/chazu/rpcgen/pkg/diag"
	"github.com/chazu/rpcgen/pkg/registry"
	"github.com/chazu/rpcgen/pkg/resolve"
	"github.com/chazu/rpcgen/pkg/rpc"
)

var user = decl.Named("github.com/acme/models", "User")

func callbackParam(arg decl.TypeRef) decl.Param {
	return decl.Param{Name: "cb", Type: decl.Named(rpc.PackagePath, "RequestCallback", arg)}
}

func resolveOne(t *testing.T, d decl.Declaration, groupScope *string) ([]registry.Endpoint, diag.List) {
	t.Helper()
	set := decl.Set{Groups: []decl.Group{{Name: "API", Scope: groupScope, Declarations: []decl.Declaration{d}}}}
	return resolve.Resolve(set, resolve.Options{})
}

func TestNaming(t *testing.T) {
	tests := []struct {
		name       string
		groupScope *string
		d          decl.Declaration
		wantScope  string
		wantMethod string
	}{
		{
			name:       "inherited group scope",
			groupScope: decl.String("user"),
			d:          decl.Declaration{Name: "getProfile", Result: &user},
			wantScope:  "user",
			wantMethod: "getProfile",
		},
		{
			name:       "inherited no-scope bucket",
			groupScope: decl.String(""),
			d:          decl.Declaration{Name: "ping", Result: &user},
			wantScope:  "",
			wantMethod: "ping",
		},
		{
			name:       "method scope annotation overrides group scope",
			groupScope: decl.String("user"),
			d:          decl.Declaration{Name: "login", Scope: decl.String("auth"), Result: &user},
			wantScope:  "auth",
			wantMethod: "login",
		},
		{
			name:       "fully-qualified annotation overrides group scope",
			groupScope: decl.String("user"),
			d:          decl.Declaration{Name: "DoLogin", Method: decl.String("auth.login"), Result: &user},
			wantScope:  "auth",
			wantMethod: "login",
		},
		{
			name:       "fully-qualified annotation without group",
			d:          decl.Declaration{Name: "Anything", Method: decl.String("test123.Foo9"), Result: &user},
			wantScope:  "test123",
			wantMethod: "Foo9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoints, diags := resolveOne(t, tt.d, tt.groupScope)
			assert.Empty(t, diags)
			require.Len(t, endpoints, 1)
			assert.Equal(t, tt.wantScope, endpoints[0].Scope)
			assert.Equal(t, tt.wantMethod, endpoints[0].Method)
		})
	}
}

func TestNamingErrors(t *testing.T) {
	tests := []struct {
		name    string
		d       decl.Declaration
		wantMsg string
	}{
		{
			name:    "ambiguous naming",
			d:       decl.Declaration{Name: "x", Scope: decl.String("a"), Method: decl.String("a.x")},
			wantMsg: "ambiguous naming: both scope and method annotations present",
		},
		{"single part", decl.Declaration{Name: "x", Method: decl.String("foo")}, `invalid method "foo"; must be scope.method`},
		{"three parts", decl.Declaration{Name: "x", Method: decl.String("a.b.c")}, `invalid method "a.b.c"; must be scope.method`},
		{"empty scope part", decl.Declaration{Name: "x", Method: decl.String(".b")}, `invalid method ".b"; must be scope.method`},
		{"empty method part", decl.Declaration{Name: "x", Method: decl.String("a.")}, `invalid method "a."; must be scope.method`},
		{"invalid scope", decl.Declaration{Name: "get", Scope: decl.String("us_er")}, `invalid scope "us_er"`},
		{"invalid fq scope", decl.Declaration{Name: "x", Method: decl.String("us-er.get")}, `invalid scope "us-er"`},
		{"invalid method", decl.Declaration{Name: "get_all", Scope: decl.String("user")}, `invalid method "get_all"`},
		{"non-ascii method", decl.Declaration{Name: "x", Method: decl.String("user.gét")}, `invalid method "gét"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.d.Pos = decl.Position{File: "api.go", Line: 7}
			endpoints, diags := resolveOne(t, tt.d, nil)
			assert.Empty(t, endpoints)
			require.Len(t, diags, 1)
			assert.Equal(t, diag.Error, diags[0].Severity)
			assert.Equal(t, tt.wantMsg, diags[0].Message)
			assert.Equal(t, "API."+tt.d.Name, diags[0].Subject)
			assert.Equal(t, "api.go:7", diags[0].Pos.String())
		})
	}
}

func TestErrorsDoNotAbortBatch(t *testing.T) {
	set := decl.Set{
		Groups: []decl.Group{{
			Name:  "UserAPI",
			Scope: decl.String("user"),
			Declarations: []decl.Declaration{
				{Name: "bad-name", Result: &user},
				{Name: "get", Result: &user},
			},
		}},
		Declarations: []decl.Declaration{
			{Name: "x", Method: decl.String("broken")},
			{Name: "y", Method: decl.String("auth.login"), Result: &user},
		},
	}

	endpoints, diags := resolve.Resolve(set, resolve.Options{})
	assert.Len(t, diags.Errors(), 2)

	var names []string
	for _, e := range endpoints {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"user.get", "auth.login"}, names)
}

func TestNonEndpoints(t *testing.T) {
	set := decl.Set{
		Groups: []decl.Group{
			{
				Name:  "Scoped",
				Scope: decl.String("user"),
				Declarations: []decl.Declaration{
					{Name: "io.Closer", Kind: decl.KindEmbedded},
					{Name: "get", Result: &user},
				},
			},
			{
				Name:         "Plain",
				Declarations: []decl.Declaration{{Name: "helper"}},
			},
		},
		Declarations: []decl.Declaration{
			{Name: "standalone"},
			{Name: "field", Kind: decl.KindField, Method: decl.String("a.b")},
		},
	}

	endpoints, diags := resolve.Resolve(set, resolve.Options{})
	require.Len(t, endpoints, 1)
	assert.Equal(t, "user.get", endpoints[0].Name())

	// Only the explicitly annotated non-method is worth a word.
	require.Len(t, diags, 1)
	assert.Equal(t, diag.Warning, diags[0].Severity)
	assert.Equal(t, "field", diags[0].Subject)
}

func TestResultType(t *testing.T) {
	str := decl.Named("", "string")

	tests := []struct {
		name     string
		d        decl.Declaration
		want     decl.TypeRef
		wantWarn bool
	}{
		{
			name: "override wins over callback",
			d:    decl.Declaration{Name: "get", Result: &user, Params: []decl.Param{callbackParam(str)}},
			want: user,
		},
		{
			name: "callback type argument",
			d: decl.Declaration{Name: "get", Params: []decl.Param{
				{Name: "id", Type: decl.Named("", "int")},
				callbackParam(decl.Slice(user)),
			}},
			want: decl.Slice(user),
		},
		{
			name: "callback from another package is not the capability",
			d: decl.Declaration{Name: "get", Params: []decl.Param{
				{Name: "cb", Type: decl.Named("github.com/other/rpc", "RequestCallback", str)},
			}},
			want:     decl.Any,
			wantWarn: true,
		},
		{
			name:     "no information",
			d:        decl.Declaration{Name: "get"},
			want:     decl.Any,
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoints, diags := resolveOne(t, tt.d, decl.String("user"))
			require.Len(t, endpoints, 1)
			assert.True(t, tt.want.Equal(endpoints[0].Result), "got %s", endpoints[0].Result)
			if tt.wantWarn {
				require.Len(t, diags, 1)
				assert.Equal(t, diag.Warning, diags[0].Severity)
				assert.Equal(t, "cannot determine result type; defaulting to any", diags[0].Message)
			} else {
				assert.Empty(t, diags)
			}
		})
	}
}

func TestCustomCallbackType(t *testing.T) {
	d := decl.Declaration{Name: "get", Params: []decl.Param{
		{Name: "cb", Type: decl.Named("github.com/other/rpc", "Callback", user)},
	}}
	set := decl.Set{Groups: []decl.Group{{Name: "API", Scope: decl.String("user"), Declarations: []decl.Declaration{d}}}}

	endpoints, diags := resolve.Resolve(set, resolve.Options{
		CallbackType: decl.Named("github.com/other/rpc", "Callback"),
	})
	assert.Empty(t, diags)
	require.Len(t, endpoints, 1)
	assert.True(t, user.Equal(endpoints[0].Result))
}

func TestPassThroughFlags(t *testing.T) {
	d := decl.Declaration{
		Name:        "get",
		Result:      &user,
		NotBindable: true,
		Defaults:    []decl.DefaultParameter{{Key: "version", Value: "2"}},
	}
	endpoints, _ := resolveOne(t, d, decl.String("user"))
	require.Len(t, endpoints, 1)
	assert.True(t, endpoints[0].NotBindable)
	assert.Equal(t, d.Defaults, endpoints[0].Defaults)
}

func TestProblemsExcludeDeclaration(t *testing.T) {
	bad := decl.Declaration{Name: "bad", Pos: decl.Position{File: "api.json", Line: 4}}
	bad.Problemf(decl.Position{File: "api.json", Line: 5}, "result: parsing type %q", "map[")
	bad.Problemf(decl.Position{}, "second")
	set := decl.Set{Groups: []decl.Group{{
		Name:         "API",
		Scope:        decl.String("user"),
		Declarations: []decl.Declaration{bad, {Name: "good", Result: &user}},
	}}}

	endpoints, diags := resolve.Resolve(set, resolve.Options{})
	require.Len(t, endpoints, 1)
	assert.Equal(t, "user.good", endpoints[0].Name())

	require.Len(t, diags, 2)
	assert.Equal(t, `api.json:5: error: API.bad: result: parsing type "map["`, diags[0].String())
	assert.Equal(t, "api.json:4: error: API.bad: second", diags[1].String(), "problems without a position use the declaration's")
}

func TestGroupProblemsExcludeMembers(t *testing.T) {
	g := decl.Group{
		Name:         "API",
		Scope:        decl.String("user"),
		Declarations: []decl.Declaration{{Name: "get", Result: &user}},
		Pos:          decl.Position{File: "api.go", Line: 3},
	}
	g.Problemf(decl.Position{}, "unknown directive %q", "//rpc:bogus")
	set := decl.Set{
		Groups:       []decl.Group{g},
		Declarations: []decl.Declaration{{Name: "ping", Method: decl.String("system.ping"), Result: &user}},
	}

	endpoints, diags := resolve.Resolve(set, resolve.Options{})
	require.Len(t, endpoints, 1)
	assert.Equal(t, "system.ping", endpoints[0].Name())
	require.Len(t, diags, 1)
	assert.Equal(t, `api.go:3: error: API: unknown directive "//rpc:bogus"`, diags[0].String())
}
