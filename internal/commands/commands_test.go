package commands_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"todoclient/internal/commands"
	"todoclient/internal/config"
	"todoclient/internal/exitcode"
	"todoclient/internal/service"
	"todoclient/internal/testutil"
)

const (
	listID = service.ListID("3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	milkID = "11111111-1111-4111-8111-111111111111"
	eggsID = "22222222-2222-4222-8222-222222222222"
	teaID  = "33333333-3333-4333-8333-333333333333"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var s service.Service
	if svc != nil {
		s = svc
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// shoppingService returns a service holding one list with three tasks,
// the second one completed.
func shoppingService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddList(listID)
	svc.AddTaskDirect(listID, milkID, "Buy milk", false)
	svc.AddTaskDirect(listID, eggsID, "Buy eggs", true)
	svc.AddTaskDirect(listID, teaID, "Buy tea", false)
	return svc
}

func expectCode(t *testing.T, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := commands.NewHelpCmd(commands.DefaultRegistry)

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

// Tests for list command
func TestListCommand_AllTasks(t *testing.T) {
	svc := shoppingService()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list", stdout)
}

func TestListCommand_Long(t *testing.T) {
	svc := shoppingService()
	cmd := &commands.ListCmd{}
	cmd.SetLong(true)

	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	testutil.GoldenString(t, "list_long", stdout)
}

func TestListCommand_FilterKeepsFullListNumbers(t *testing.T) {
	svc := shoppingService()
	cmd := &commands.ListCmd{}
	cmd.SetFilter("uncompleted")

	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	expected := "   1  [ ] Buy milk\n   3  [ ] Buy tea\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if n := svc.Calls("FilterTasks"); n != 1 {
		t.Errorf("expected 1 FilterTasks call, got %d", n)
	}
}

func TestListCommand_FilterCompleted(t *testing.T) {
	svc := shoppingService()
	cmd := &commands.ListCmd{}
	cmd.SetFilter("completed")

	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "   2  [x] Buy eggs\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestListCommand_FilterWithoutMatches(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList(listID)
	svc.AddTaskDirect(listID, milkID, "Buy milk", false)
	cmd := &commands.ListCmd{}
	cmd.SetFilter("completed")

	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "No completed tasks.\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestListCommand_InvalidFilter(t *testing.T) {
	svc := shoppingService()
	cmd := &commands.ListCmd{}
	cmd.SetFilter("bogus")

	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, exitcode.UserError, code)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: invalid filter: bogus\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := svc.TotalCalls(); n != 0 {
		t.Errorf("expected no exchanges, got %d", n)
	}
}

func TestListCommand_CreatesList(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "No tasks.\n" {
		t.Errorf("expected %q, got %q", "No tasks.\n", stdout)
	}
	if n := svc.Calls("FindOrCreateList"); n != 1 {
		t.Errorf("expected 1 FindOrCreateList call, got %d", n)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, true)

	expectCode(t, exitcode.Success, code)
	if stdout != "" || stderr != "" {
		t.Errorf("expected no output in quiet mode, got %q / %q", stdout, stderr)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, shoppingService(), []string{"Shopping"}, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: unexpected argument: Shopping\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_TransportError(t *testing.T) {
	svc := shoppingService()
	svc.ListTasksErr = errors.New("connection refused")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expectCode(t, exitcode.BackendError, code)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: backend error: ListTasks: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_Unauthorized(t *testing.T) {
	svc := shoppingService()
	svc.FindOrCreateListErr = fmt.Errorf("%w: status 401", service.ErrUnauthorized)

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expectCode(t, exitcode.AuthError, code)
	if !strings.Contains(stderr, "run: todo login") {
		t.Errorf("expected login hint, got %q", stderr)
	}
}

func TestListCommand_ServerError(t *testing.T) {
	svc := shoppingService()
	svc.FindOrCreateListErr = &service.AppError{Status: 500, Reason: "Internal Server Error", Message: "db down"}

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	expectCode(t, exitcode.AppError, code)
	if stderr != "error: Status 500 \"db down\"\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := shoppingService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"Buy", "bread"}, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks := svc.Tasks(listID)
	if len(tasks) != 4 || tasks[3].Name != "Buy bread" {
		t.Errorf("expected 'Buy bread' appended, got %#v", tasks)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.AddCmd{}, shoppingService(), []string{"Buy bread"}, true)

	expectCode(t, exitcode.Success, code)
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_PrintID(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList(listID)
	cmd := &commands.AddCmd{}
	cmd.SetPrintID(true)

	stdout, _, code := runCommand(t, cmd, svc, []string{"Buy bread"}, true)

	expectCode(t, exitcode.Success, code)
	tasks := svc.Tasks(listID)
	if len(tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(tasks))
	}
	if stdout != tasks[0].UUID+"\n" {
		t.Errorf("expected uuid %q, got %q", tasks[0].UUID, stdout)
	}
}

func TestAddCommand_NoName(t *testing.T) {
	svc := shoppingService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, nil, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task name required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := svc.TotalCalls(); n != 0 {
		t.Errorf("expected no exchanges, got %d", n)
	}
}

func TestAddCommand_WhitespaceNameRejectedByServer(t *testing.T) {
	svc := shoppingService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"   "}, false)

	expectCode(t, exitcode.AppError, code)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: Status 400 \"Please specify a non-null, non-whitespace task name!\"\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if n := svc.Calls("AddTask"); n != 1 {
		t.Errorf("expected 1 AddTask call, got %d", n)
	}
}

// Tests for done command
func TestDoneCommand_ByPosition(t *testing.T) {
	svc := shoppingService()

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1"}, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if !svc.Tasks(listID)[0].Completed {
		t.Error("expected first task to be completed")
	}
}

func TestDoneCommand_ByUUIDReopens(t *testing.T) {
	svc := shoppingService()

	_, _, code := runCommand(t, &commands.DoneCmd{}, svc, []string{strings.ToUpper(eggsID)}, false)

	expectCode(t, exitcode.Success, code)
	if svc.Tasks(listID)[1].Completed {
		t.Error("expected completed task to be reopened")
	}
}

func TestDoneCommand_DuplicateRefsToggleOnce(t *testing.T) {
	svc := shoppingService()

	_, _, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"3", teaID}, false)

	expectCode(t, exitcode.Success, code)
	if n := svc.Calls("ToggleTaskCompletion"); n != 1 {
		t.Errorf("expected 1 toggle, got %d", n)
	}
	if !svc.Tasks(listID)[2].Completed {
		t.Error("expected third task to be completed")
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, shoppingService(), nil, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_UnknownID(t *testing.T) {
	svc := shoppingService()

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"abc"}, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task not found: abc\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls("ToggleTaskCompletion") != 0 {
		t.Error("expected no toggle for an unknown id")
	}
}

func TestDoneCommand_OpaqueID(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("list-1")
	svc.AddTaskDirect("list-1", "t1", "Buy milk", false)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"t1"}, false)

	expectCode(t, exitcode.Success, code)
	if stderr != "" || stdout != "ok\n" {
		t.Errorf("unexpected output %q / %q", stdout, stderr)
	}
	if tasks := svc.Tasks("list-1"); !tasks[0].Completed {
		t.Error("expected t1 to be completed")
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	svc := shoppingService()

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"4"}, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task number out of range: 4\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := svc.Calls("ToggleTaskCompletion"); n != 0 {
		t.Errorf("expected no toggle, got %d", n)
	}
}

func TestDoneCommand_UnknownUUID(t *testing.T) {
	const unknown = "44444444-4444-4444-8444-444444444444"

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, shoppingService(), []string{unknown}, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task not found: "+unknown+"\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_Multiple(t *testing.T) {
	svc := shoppingService()

	stdout, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1", "3"}, false)

	expectCode(t, exitcode.Success, code)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks := svc.Tasks(listID)
	if len(tasks) != 1 || tasks[0].UUID != eggsID {
		t.Errorf("expected only eggs left, got %#v", tasks)
	}
}

func TestRmCommand_ServerError(t *testing.T) {
	svc := shoppingService()
	svc.DeleteTaskErr = &service.AppError{Status: 400, Reason: "Bad Request", Message: "nope"}

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1", "2"}, false)

	expectCode(t, exitcode.AppError, code)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: Status 400 \"nope\"\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if n := svc.Calls("DeleteTask"); n != 1 {
		t.Errorf("expected to stop after the first failure, got %d deletes", n)
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, shoppingService(), nil, false)

	expectCode(t, exitcode.UserError, code)
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected duplicate name to be rejected")
	}
	if cmd, ok := r.Find("ls"); !ok || cmd.Name() != "list" {
		t.Errorf("expected alias ls to find list, got %v, %v", cmd, ok)
	}
	if all := r.All(); len(all) != 1 {
		t.Errorf("expected 1 unique command, got %d", len(all))
	}
}
