package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/cdc"
	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

func newConnectionService(t *testing.T) (*ConnectionService, *mockBackend, *store.Store) {
	t.Helper()
	b := &mockBackend{}
	st := newTestStore(t)
	svc := NewConnectionService(b, st)
	svc.now = func() time.Time { return testNow }
	return svc, b, st
}

func validForm() request.ConnectionForm {
	return request.ConnectionForm{
		Name:     "orders",
		Engine:   "mysql",
		Host:     "db.internal",
		Port:     "3306",
		Database: "orders",
		Username: "cdc",
		Password: "secret",
	}
}

// ---------- Save ----------

func TestConnectionService_Save_BlankNameMakesNoCall(t *testing.T) {
	svc, b, st := newConnectionService(t)
	f := validForm()
	f.Name = "   "

	_, err := svc.Save(context.Background(), "", f)
	require.Error(t, err)
	assert.Equal(t, "Connection name is required", err.Error())
	_, ok := request.AsValidationError(err)
	assert.True(t, ok)

	b.AssertNotCalled(t, "CreateConnection", mock.Anything, mock.Anything)
	assert.Zero(t, st.Snapshot().Version)
}

func TestConnectionService_Save_CreatesNormalizedPayload(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	f := validForm()
	f.Engine = "mariadb"
	f.Port = ""

	want := model.ConnectionPayload{
		Name:           "orders",
		DatabaseType:   "mysql",
		ConnectionType: "source",
		Host:           "db.internal",
		Port:           3306,
		Database:       "orders",
		Username:       "cdc",
		Password:       "secret",
	}
	b.On("CreateConnection", ctx, want).Return(&model.Connection{ID: "9", Name: "orders", DatabaseType: "mysql"}, nil)

	conn, err := svc.Save(ctx, "", f)
	require.NoError(t, err)
	assert.Equal(t, model.ID("9"), conn.ID)

	snap := st.Snapshot()
	require.Len(t, snap.Connections, 1)
	assert.Equal(t, "orders", snap.Connections[0].Name)
	b.AssertExpectations(t)
}

func TestConnectionService_Save_Updates(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	require.NoError(t, st.Dispatch(store.ConnectionsLoaded{Items: []model.Connection{{ID: "3", Name: "old"}}}))

	b.On("UpdateConnection", ctx, model.ID("3"), mock.AnythingOfType("model.ConnectionPayload")).
		Return(&model.Connection{ID: "3", Name: "orders"}, nil)

	_, err := svc.Save(ctx, "3", validForm())
	require.NoError(t, err)
	assert.Equal(t, "orders", st.Snapshot().Connections[0].Name)
	b.AssertExpectations(t)
}

func TestConnectionService_Save_BackendErrorLeavesStore(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	apiErr := &cdc.APIError{StatusCode: 400, Message: "name: already exists"}
	b.On("CreateConnection", ctx, mock.Anything).Return(nil, apiErr)

	_, err := svc.Save(ctx, "", validForm())
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Contains(t, err.Error(), "create connection")
	assert.Zero(t, st.Snapshot().Version)
}

func TestConnectionService_Save_InProgress(t *testing.T) {
	svc, b, st := newConnectionService(t)
	require.NoError(t, st.Begin("connection:update:3"))

	_, err := svc.Save(context.Background(), "3", validForm())
	assert.ErrorIs(t, err, ErrInProgress)
	b.AssertNotCalled(t, "UpdateConnection", mock.Anything, mock.Anything, mock.Anything)
}

// ---------- Delete ----------

func TestConnectionService_Delete(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	require.NoError(t, st.Dispatch(store.ConnectionsLoaded{Items: []model.Connection{{ID: "1"}, {ID: "2"}}}))
	b.On("DeleteConnection", ctx, model.ID("1")).Return(nil)

	require.NoError(t, svc.Delete(ctx, "1"))
	snap := st.Snapshot()
	require.Len(t, snap.Connections, 1)
	assert.Equal(t, model.ID("2"), snap.Connections[0].ID)
}

func TestConnectionService_Delete_Error(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	require.NoError(t, st.Dispatch(store.ConnectionsLoaded{Items: []model.Connection{{ID: "1"}}}))
	b.On("DeleteConnection", ctx, model.ID("1")).Return(errors.New("boom"))

	err := svc.Delete(ctx, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete connection 1")
	assert.Len(t, st.Snapshot().Connections, 1)
}

// ---------- List ----------

func TestConnectionService_List_LoadsOnce(t *testing.T) {
	svc, b, _ := newConnectionService(t)
	ctx := context.Background()
	b.On("ListConnections", ctx).Return([]model.Connection{{ID: "1"}}, nil).Once()

	first, err := svc.List(ctx, false)
	require.NoError(t, err)
	second, err := svc.List(ctx, false)
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
	b.AssertNumberOfCalls(t, "ListConnections", 1)
}

func TestConnectionService_List_Refresh(t *testing.T) {
	svc, b, _ := newConnectionService(t)
	ctx := context.Background()
	b.On("ListConnections", ctx).Return([]model.Connection{{ID: "1"}}, nil).Twice()

	_, err := svc.List(ctx, false)
	require.NoError(t, err)
	_, err = svc.List(ctx, true)
	require.NoError(t, err)
	b.AssertNumberOfCalls(t, "ListConnections", 2)
}

func TestConnectionService_List_Error(t *testing.T) {
	svc, b, _ := newConnectionService(t)
	ctx := context.Background()
	b.On("ListConnections", ctx).Return(nil, errors.New("down"))

	_, err := svc.List(ctx, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list connections")
}

// ---------- Test ----------

func TestConnectionService_Test_Saved(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	require.NoError(t, st.Dispatch(store.ConnectionsLoaded{Items: []model.Connection{{ID: "5"}}}))
	b.On("TestConnection", ctx, model.ID("5")).Return(model.TestResult{State: model.TestSuccess, Message: "Connection successful"}, nil)

	res, err := svc.Test(ctx, TestTarget{ID: "5"})
	require.NoError(t, err)
	assert.Equal(t, model.TestSuccess, res.State)
	assert.Equal(t, testNow, res.TestedAt)

	snap := st.Snapshot()
	assert.Equal(t, model.TestSuccess, snap.Tests["5"].State)
	assert.Equal(t, "success", snap.Connections[0].LastTestStatus)
}

func TestConnectionService_Test_TransportErrorBecomesErrorResult(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	b.On("TestConnection", ctx, model.ID("5")).Return(model.TestResult{}, errors.New("dial tcp: refused"))

	res, err := svc.Test(ctx, TestTarget{ID: "5"})
	require.NoError(t, err)
	assert.Equal(t, model.TestError, res.State)
	assert.Contains(t, res.Message, "dial tcp: refused")
	assert.Equal(t, model.TestError, st.Snapshot().Tests["5"].State)
}

func TestConnectionService_Test_UnsavedValidatesFirst(t *testing.T) {
	svc, b, st := newConnectionService(t)
	f := validForm()
	f.Host = ""

	_, err := svc.Test(context.Background(), TestTarget{Form: &f})
	require.Error(t, err)
	assert.Equal(t, "Host is required", err.Error())
	b.AssertNotCalled(t, "TestConnectionPayload", mock.Anything, mock.Anything)
	assert.Empty(t, st.Snapshot().Tests)
}

func TestConnectionService_Test_Unsaved(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	f := validForm()
	b.On("TestConnectionPayload", ctx, mock.AnythingOfType("model.ConnectionPayload")).
		Return(model.TestResult{State: model.TestError, Message: "host: unreachable"}, nil)

	res, err := svc.Test(ctx, TestTarget{Form: &f})
	require.NoError(t, err)
	assert.Equal(t, "host: unreachable", res.Message)
	assert.Equal(t, model.TestError, st.Snapshot().Tests["draft"].State)
}

func TestConnectionService_Test_UnsavedKeyDoesNotTouchSavedConnection(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	require.NoError(t, st.Dispatch(store.ConnectionsLoaded{Items: []model.Connection{{ID: "42", LastTestStatus: "success"}}}))
	f := validForm()
	b.On("TestConnectionPayload", ctx, mock.AnythingOfType("model.ConnectionPayload")).
		Return(model.TestResult{State: model.TestError, Message: "host: unreachable"}, nil)

	_, err := svc.Test(ctx, TestTarget{Form: &f, Key: "42"})
	require.NoError(t, err)

	snap := st.Snapshot()
	assert.Equal(t, model.TestError, snap.Tests["draft:42"].State)
	assert.NotContains(t, snap.Tests, "42")
	assert.Equal(t, "success", snap.Connections[0].LastTestStatus)
	assert.Nil(t, snap.Connections[0].LastTestedAt)
}

func TestConnectionService_Test_UnsavedScopedPerCaller(t *testing.T) {
	svc, b, st := newConnectionService(t)
	ctx := context.Background()
	f := validForm()
	b.On("TestConnectionPayload", ctx, mock.AnythingOfType("model.ConnectionPayload")).
		Return(model.TestResult{State: model.TestSuccess}, nil).Once()
	b.On("TestConnectionPayload", ctx, mock.AnythingOfType("model.ConnectionPayload")).
		Return(model.TestResult{State: model.TestError, Message: "refused"}, nil).Once()

	_, err := svc.Test(ctx, TestTarget{Form: &f, Caller: "user:1"})
	require.NoError(t, err)
	_, err = svc.Test(ctx, TestTarget{Form: &f, Caller: "user:2"})
	require.NoError(t, err)

	snap := st.Snapshot()
	assert.Equal(t, model.TestSuccess, snap.Tests["draft:user:1"].State)
	assert.Equal(t, model.TestError, snap.Tests["draft:user:2"].State)
	assert.NotContains(t, snap.Tests, "draft")
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "draft", DraftKey("", ""))
	assert.Equal(t, "draft:7", DraftKey("", "7"))
	assert.Equal(t, "draft:user:3", DraftKey("user:3", ""))
	assert.Equal(t, "draft:user:3:form-1", DraftKey("user:3", "form-1"))
}

func TestConnectionService_Test_NoTarget(t *testing.T) {
	svc, _, _ := newConnectionService(t)
	_, err := svc.Test(context.Background(), TestTarget{})
	require.Error(t, err)
	assert.Equal(t, "Connection is required", err.Error())
}

func TestConnectionService_Test_InProgress(t *testing.T) {
	svc, b, st := newConnectionService(t)
	require.NoError(t, st.Begin("connection:test:5"))

	_, err := svc.Test(context.Background(), TestTarget{ID: "5"})
	assert.ErrorIs(t, err, ErrInProgress)
	b.AssertNotCalled(t, "TestConnection", mock.Anything, mock.Anything)
}
