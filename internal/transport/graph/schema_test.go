package graph

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goboard/internal/app"
	"goboard/internal/model"
	"goboard/internal/repository"
)

// --- fakes for the service dependencies ---

type memUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func (m *memUserRepo) Create(user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *memUserRepo) GetByID(id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		found := *u
		return &found, nil
	}
	return nil, nil
}

func (m *memUserRepo) GetByUsername(username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmail(email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) UpdatePassword(id uint, passwordHash string) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

type memTokenStore struct {
	tokens map[string]uint
}

func (m *memTokenStore) Set(ctx context.Context, token string, userID uint) error {
	m.tokens[token] = userID
	return nil
}

func (m *memTokenStore) Get(ctx context.Context, token string) (uint, bool, error) {
	id, ok := m.tokens[token]
	return id, ok, nil
}

func (m *memTokenStore) Delete(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

type memMailer struct{}

func (memMailer) Send(ctx context.Context, to, subject, html string) error { return nil }

type memSession struct {
	userID uint
}

func (m *memSession) UserID() uint { return m.userID }

func (m *memSession) SetUserID(id uint) error {
	m.userID = id
	return nil
}

func (m *memSession) Clear() error {
	m.userID = 0
	return nil
}

type memPostRepo struct {
	posts  map[uint]*model.Post
	nextID uint
}

func (m *memPostRepo) Create(post *model.Post) error {
	m.nextID++
	post.ID = m.nextID
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *memPostRepo) GetByID(id uint) (*model.Post, error) {
	if p, ok := m.posts[id]; ok {
		found := *p
		return &found, nil
	}
	return nil, nil
}

func (m *memPostRepo) List() ([]model.Post, error) {
	var posts []model.Post
	for _, p := range m.posts {
		posts = append(posts, *p)
	}
	return posts, nil
}

func (m *memPostRepo) Update(post *model.Post) error {
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *memPostRepo) Delete(id uint) error {
	delete(m.posts, id)
	return nil
}

// --- helpers ---

type schemaFixture struct {
	schema graphql.Schema
	tokens *memTokenStore
}

func newSchemaFixture(t *testing.T) *schemaFixture {
	t.Helper()
	tokens := &memTokenStore{tokens: map[string]uint{}}
	auth := app.NewAuthService(
		&memUserRepo{users: map[uint]*model.User{}},
		tokens,
		memMailer{},
		"http://localhost:3000",
	)
	posts := app.NewPostService(&memPostRepo{posts: map[uint]*model.Post{}})

	schema, err := NewSchema(auth, posts)
	require.NoError(t, err)
	return &schemaFixture{schema: schema, tokens: tokens}
}

func (fx *schemaFixture) exec(sess app.Session, query string, vars map[string]interface{}) *graphql.Result {
	ctx := WithScope(context.Background(), &RequestScope{Session: sess})
	return graphql.Do(graphql.Params{
		Schema:         fx.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func data(t *testing.T, result *graphql.Result) map[string]interface{} {
	t.Helper()
	require.False(t, result.HasErrors(), "unexpected graphql errors: %v", result.Errors)
	return result.Data.(map[string]interface{})
}

const registerMutation = `
mutation Register($username: String!, $email: String!, $password: String!) {
	register(username: $username, email: $email, password: $password) {
		errors { field message }
		user { id username email }
	}
}`

func registerVars(username, email, password string) map[string]interface{} {
	return map[string]interface{}{"username": username, "email": email, "password": password}
}

// --- tests ---

func TestRegisterMutation(t *testing.T) {
	fx := newSchemaFixture(t)
	sess := &memSession{}

	out := data(t, fx.exec(sess, registerMutation, registerVars("ben", "ben@example.com", "secret")))
	register := out["register"].(map[string]interface{})

	assert.Nil(t, register["errors"])
	user := register["user"].(map[string]interface{})
	assert.Equal(t, "ben", user["username"])
	assert.Equal(t, "ben@example.com", user["email"])
	assert.NotZero(t, sess.UserID())
}

func TestRegisterMutationFieldErrors(t *testing.T) {
	fx := newSchemaFixture(t)

	out := data(t, fx.exec(&memSession{}, registerMutation, registerVars("ab", "ben@example.com", "secret")))
	register := out["register"].(map[string]interface{})

	assert.Nil(t, register["user"])
	errs := register["errors"].([]interface{})
	require.Len(t, errs, 1)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "username", first["field"])
	assert.Equal(t, "length must be greater than 2", first["message"])
}

func TestMeQuery(t *testing.T) {
	fx := newSchemaFixture(t)
	sess := &memSession{}

	out := data(t, fx.exec(sess, `{ me { id username } }`, nil))
	assert.Nil(t, out["me"])

	data(t, fx.exec(sess, registerMutation, registerVars("ben", "ben@example.com", "secret")))

	out = data(t, fx.exec(sess, `{ me { id username } }`, nil))
	me := out["me"].(map[string]interface{})
	assert.Equal(t, "ben", me["username"])
}

func TestLoginAndLogout(t *testing.T) {
	fx := newSchemaFixture(t)
	data(t, fx.exec(&memSession{}, registerMutation, registerVars("ben", "ben@example.com", "secret")))

	login := `
	mutation Login($usernameOrEmail: String!, $password: String!) {
		login(usernameOrEmail: $usernameOrEmail, password: $password) {
			errors { field message }
			user { id username }
		}
	}`

	sess := &memSession{}
	out := data(t, fx.exec(sess, login, map[string]interface{}{
		"usernameOrEmail": "ben", "password": "wrong",
	}))
	result := out["login"].(map[string]interface{})
	errs := result["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].(map[string]interface{})["field"])
	assert.Zero(t, sess.UserID())

	out = data(t, fx.exec(sess, login, map[string]interface{}{
		"usernameOrEmail": "ben@example.com", "password": "secret",
	}))
	result = out["login"].(map[string]interface{})
	require.NotNil(t, result["user"])
	assert.NotZero(t, sess.UserID())

	out = data(t, fx.exec(sess, `mutation { logout }`, nil))
	assert.Equal(t, true, out["logout"])
	assert.Zero(t, sess.UserID())
}

func TestForgotAndChangePassword(t *testing.T) {
	fx := newSchemaFixture(t)
	data(t, fx.exec(&memSession{}, registerMutation, registerVars("ben", "ben@example.com", "secret")))

	out := data(t, fx.exec(&memSession{},
		`mutation { forgotPassword(email: "ben@example.com") }`, nil))
	assert.Equal(t, true, out["forgotPassword"])
	require.Len(t, fx.tokens.tokens, 1)

	var token string
	for tok := range fx.tokens.tokens {
		token = tok
	}

	sess := &memSession{}
	out = data(t, fx.exec(sess, `
	mutation ChangePassword($token: String!, $newPassword: String!) {
		changePassword(token: $token, newPassword: $newPassword) {
			errors { field message }
			user { id username }
		}
	}`, map[string]interface{}{"token": token, "newPassword": "newsecret"}))

	result := out["changePassword"].(map[string]interface{})
	require.NotNil(t, result["user"])
	assert.NotZero(t, sess.UserID())
	assert.Empty(t, fx.tokens.tokens)
}

func TestPostOperations(t *testing.T) {
	fx := newSchemaFixture(t)
	sess := &memSession{}

	out := data(t, fx.exec(sess,
		`mutation { createPost(title: "hello") { id title } }`, nil))
	created := out["createPost"].(map[string]interface{})
	assert.Equal(t, "hello", created["title"])
	id := created["id"]

	out = data(t, fx.exec(sess, `{ posts { id title } }`, nil))
	posts := out["posts"].([]interface{})
	require.Len(t, posts, 1)

	out = data(t, fx.exec(sess, `
	mutation Update($id: Int!, $title: String!) {
		updatePost(id: $id, title: $title) { id title }
	}`, map[string]interface{}{"id": id, "title": "renamed"}))
	updated := out["updatePost"].(map[string]interface{})
	assert.Equal(t, "renamed", updated["title"])

	out = data(t, fx.exec(sess, `
	mutation Delete($id: Int!) { deletePost(id: $id) }`,
		map[string]interface{}{"id": id}))
	assert.Equal(t, true, out["deletePost"])

	out = data(t, fx.exec(sess, `
	query Post($id: Int!) { post(id: $id) { id } }`,
		map[string]interface{}{"id": id}))
	assert.Nil(t, out["post"])
}

func TestMissingRequestScope(t *testing.T) {
	fx := newSchemaFixture(t)

	result := graphql.Do(graphql.Params{
		Schema:        fx.schema,
		RequestString: `{ me { id } }`,
		Context:       context.Background(),
	})
	assert.True(t, result.HasErrors())
}
