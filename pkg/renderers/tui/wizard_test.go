package tui

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/flow"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

type answer struct {
	text    string
	confirm bool
	index   int
	indices []int
	err     error
}

type stubDriver struct {
	t       *testing.T
	answers []answer
	prompts []string
	infos   []string
}

func (d *stubDriver) next(kind, message string) answer {
	d.t.Helper()
	d.prompts = append(d.prompts, kind+":"+message)
	if len(d.answers) == 0 {
		d.t.Fatalf("unexpected %s prompt %q (prompts so far: %v)", kind, message, d.prompts)
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a
}

func (d *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	for {
		a := d.next("input", cfg.Message)
		if a.err != nil {
			return "", a.err
		}
		if cfg.Validator != nil {
			if err := cfg.Validator(a.text); err != nil {
				d.infos = append(d.infos, "invalid: "+err.Error())
				continue
			}
		}
		return a.text, nil
	}
}

func (d *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	a := d.next("confirm", cfg.Message)
	return a.confirm, a.err
}

func (d *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	a := d.next("select", cfg.Message)
	return a.index, a.err
}

func (d *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	a := d.next("multiselect", cfg.Message)
	return a.indices, a.err
}

func (d *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	a := d.next("textarea", cfg.Message)
	return a.text, a.err
}

func (d *stubDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func (d *stubDriver) infoContaining(fragment string) bool {
	for _, info := range d.infos {
		if strings.Contains(info, fragment) {
			return true
		}
	}
	return false
}

func wizardForm() schema.Form {
	return schema.Form{
		Title: "Enrollment",
		Sections: []schema.Section{
			{
				Title:       "Profile",
				Description: "Tell us about you",
				Fields: []schema.Field{
					{ID: "name", Type: schema.FieldTypeText, Label: "Full Name", Required: true, MinLength: schema.IntPtr(2)},
					{ID: "bio", Type: schema.FieldTypeTextArea, Label: "Bio"},
				},
			},
			{
				Title: "Choices",
				Fields: []schema.Field{
					{ID: "topics", Type: schema.FieldTypeCheckbox, Label: "Topics", Required: true, Options: []schema.Option{
						{Value: "go", Label: "Go"}, {Value: "rust", Label: "Rust"},
					}},
					{ID: "level", Type: schema.FieldTypeDropdown, Label: "Level", Options: []schema.Option{
						{Value: "jr", Label: "Junior"}, {Value: "sr", Label: "Senior"},
					}},
					{ID: "mode", Type: schema.FieldTypeRadio, Label: "Mode", Options: []schema.Option{
						{Value: "onsite"}, {Value: "remote"},
					}},
				},
			},
		},
	}
}

func sessionOptions() []form.Option {
	return []form.Option{
		form.WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }),
		form.WithIDGenerator(func() string { return "sub-1" }),
	}
}

func newWizard(t *testing.T, driver *stubDriver, out *bytes.Buffer, opts ...Option) *Wizard {
	t.Helper()
	base := []Option{WithPromptDriver(driver), WithOutput(out)}
	w, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	return w
}

// Answers for both sections of wizardForm: a short name first, then a valid
// pass through to submit.
func fillScript() []answer {
	return []answer{
		{text: "A"},         // name
		{text: ""},          // bio
		{index: 0},          // next
		{text: "Ada"},       // name again
		{text: "Hi"},        // bio
		{index: 0},          // next
		{indices: []int{1}}, // topics: rust
		{index: 2},          // level: Senior
		{index: 0},          // mode: onsite
		{index: 0},          // submit
	}
}

func TestWizardFill_ValidatesThenSubmits(t *testing.T) {
	session, err := form.NewSession(wizardForm(), sessionOptions()...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{t: t, answers: fillScript()}
	var out bytes.Buffer
	w := newWizard(t, driver, &out)

	sub, err := w.Fill(context.Background(), session)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(driver.answers) != 0 {
		t.Fatalf("unused answers: %+v", driver.answers)
	}

	want := form.Values{
		"name":   form.StringValue("Ada"),
		"bio":    form.StringValue("Hi"),
		"topics": form.MultiValue("rust"),
		"level":  form.StringValue("sr"),
		"mode":   form.StringValue("onsite"),
	}
	if diff := cmp.Diff(want.Payload(), sub.Values.Payload()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if sub.ID != "sub-1" || !session.Submitted() {
		t.Fatalf("expected accepted submission, got %+v", sub)
	}

	wantOut := "name=Ada\nbio=Hi\ntopics[0]=rust\nlevel=sr\nmode=onsite\n"
	if out.String() != wantOut {
		t.Fatalf("output mismatch\nwant: %q\n got: %q", wantOut, out.String())
	}

	if !driver.infoContaining("Profile (1/2)\n=======\nTell us about you") {
		t.Fatalf("missing section header in %q", driver.infos)
	}
	if !driver.infoContaining("Choices (2/2)") {
		t.Fatalf("missing second header in %q", driver.infos)
	}
	if !driver.infoContaining("✗ Full Name: " + form.MinLengthMessage(2)) {
		t.Fatalf("missing field error in %q", driver.infos)
	}
	if !driver.infoContaining("✓ Form submitted") {
		t.Fatalf("missing success message in %q", driver.infos)
	}
}

func TestWizardFill_PreviousKeepsAnswers(t *testing.T) {
	session, err := form.NewSession(wizardForm(), sessionOptions()...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{t: t, answers: []answer{
		{text: "Ada"}, {text: ""}, {index: 0}, // section 1, next
		{indices: []int{0}}, {index: 0}, {index: 1}, // go, no level, remote
		{index: 1},                              // previous
		{text: "Ada L"}, {text: ""}, {index: 0}, // section 1 again
		{indices: []int{0}}, {index: 1}, {index: 1}, // go, Junior, remote
		{index: 0}, // submit
	}}
	var out bytes.Buffer
	w := newWizard(t, driver, &out, WithEncoder(nil))

	sub, err := w.Fill(context.Background(), session)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := sub.Values["name"].Text(); got != "Ada L" {
		t.Fatalf("name = %q", got)
	}
	if got := sub.Values["topics"].Items(); !cmp.Equal(got, []string{"go"}) {
		t.Fatalf("topics = %v", got)
	}
	if got := sub.Values["level"].Text(); got != "jr" {
		t.Fatalf("level = %q", got)
	}
	if got := sub.Values["mode"].Text(); got != "remote" {
		t.Fatalf("mode = %q", got)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output with nil encoder, got %q", out.String())
	}
}

func TestWizardFill_CheckboxDiffsApplyToggles(t *testing.T) {
	session, err := form.NewSession(wizardForm(), sessionOptions()...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.SetText("name", "Ada"); err != nil {
		t.Fatal(err)
	}
	if err := session.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := session.Toggle("topics", "go", true); err != nil {
		t.Fatal(err)
	}

	w := newWizard(t, &stubDriver{t: t}, &bytes.Buffer{})
	field, _ := session.Field("topics")
	driver := &stubDriver{t: t, answers: []answer{{indices: []int{1}}}}
	w.driver = driver
	if err := w.promptField(context.Background(), session, field); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	got, _ := session.Value("topics")
	if diff := cmp.Diff([]string{"rust"}, got.Items()); diff != "" {
		t.Fatalf("topics mismatch (-want +got):\n%s", diff)
	}
}

func TestWizardFill_DropdownPlaceholderClears(t *testing.T) {
	session, err := form.NewSession(wizardForm(), sessionOptions()...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := session.SetText("level", "sr"); err != nil {
		t.Fatal(err)
	}
	driver := &stubDriver{t: t, answers: []answer{{index: 0}}}
	w := newWizard(t, driver, &bytes.Buffer{})
	field, _ := session.Field("level")
	if err := w.promptField(context.Background(), session, field); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	got, _ := session.Value("level")
	if got.Text() != "" {
		t.Fatalf("expected cleared level, got %q", got.Text())
	}
}

func TestWizardFill_DuplicateOptionLabelsPickByIndex(t *testing.T) {
	dup := schema.Form{Title: "Dup", Sections: []schema.Section{{Title: "Only", Fields: []schema.Field{
		{ID: "slot", Type: schema.FieldTypeRadio, Label: "Slot", Options: []schema.Option{
			{Value: "am", Label: "Morning"}, {Value: "am-late", Label: "Morning"},
		}},
		{ID: "days", Type: schema.FieldTypeCheckbox, Label: "Days", Options: []schema.Option{
			{Value: "mon", Label: "Weekday"}, {Value: "tue", Label: "Weekday"}, {Value: "sat", Label: "Weekend"},
		}},
	}}}}
	session, err := form.NewSession(dup, sessionOptions()...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{t: t, answers: []answer{{index: 1}, {indices: []int{1, 2}}}}
	w := newWizard(t, driver, &bytes.Buffer{})
	for _, field := range session.CurrentSection().Fields {
		if err := w.promptField(context.Background(), session, field); err != nil {
			t.Fatalf("prompt %s: %v", field.ID, err)
		}
	}

	slot, _ := session.Value("slot")
	if slot.Text() != "am-late" {
		t.Fatalf("slot = %q, want the second option", slot.Text())
	}
	days, _ := session.Value("days")
	if diff := cmp.Diff([]string{"tue", "sat"}, days.Items()); diff != "" {
		t.Fatalf("days mismatch (-want +got):\n%s", diff)
	}
}

func TestValidIndices(t *testing.T) {
	got := validIndices([]string{"a", "a", "b"}, []int{-1, 1, 2, 3})
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Fatalf("indices mismatch (-want +got):\n%s", diff)
	}
}

func TestWizardFill_SubmitterFailureAllowsRetry(t *testing.T) {
	calls := 0
	submitter := form.SubmitterFunc(func(context.Context, form.Submission) error {
		calls++
		if calls == 1 {
			return errors.New("offline")
		}
		return nil
	})
	single := schema.Form{Title: "One", Sections: []schema.Section{{Title: "Only", Fields: []schema.Field{
		{ID: "note", Type: schema.FieldTypeText, Label: "Note"},
	}}}}
	session, err := form.NewSession(single, append(sessionOptions(), form.WithSubmitter(submitter))...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{t: t, answers: []answer{
		{text: "x"}, {index: 0},
		{text: "x"}, {index: 0},
	}}
	w := newWizard(t, driver, &bytes.Buffer{})

	if _, err := w.Fill(context.Background(), session); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 submit attempts, got %d", calls)
	}
	if !driver.infoContaining("Submission failed") {
		t.Fatalf("missing failure message in %q", driver.infos)
	}
}

func TestWizardFill_AbortPropagates(t *testing.T) {
	session, err := form.NewSession(wizardForm(), sessionOptions()...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{t: t, answers: []answer{{err: ErrAborted}}}
	w := newWizard(t, driver, &bytes.Buffer{})
	if _, err := w.Fill(context.Background(), session); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type fakeClient struct {
	createErrs []error
	getErrs    []error
	form       schema.Form
	creates    int
	gets       int
}

func (c *fakeClient) CreateUser(context.Context, string, string) error {
	c.creates++
	if len(c.createErrs) > 0 {
		err := c.createErrs[0]
		c.createErrs = c.createErrs[1:]
		return err
	}
	return nil
}

func (c *fakeClient) GetForm(context.Context, string) (schema.Form, error) {
	c.gets++
	if len(c.getErrs) > 0 {
		err := c.getErrs[0]
		c.getErrs = c.getErrs[1:]
		return schema.Form{}, err
	}
	return c.form, nil
}

func TestWizardRun_RecoversFromRegistrationAndFetchFailures(t *testing.T) {
	client := &fakeClient{
		createErrs: []error{errors.New("roll number taken")},
		getErrs:    []error{errors.New("server down")},
		form: schema.Form{Title: "One", Sections: []schema.Section{{Title: "Only", Fields: []schema.Field{
			{ID: "note", Type: schema.FieldTypeText, Label: "Note"},
		}}}},
	}
	f := flow.New(client, flow.WithSessionOptions(sessionOptions()...))
	driver := &stubDriver{t: t, answers: []answer{
		{text: "  "}, {text: "R1"}, {text: "Ada"}, // blank roll rejected by the validator
		{text: "R1"}, {text: "Ada"},
		{confirm: true},
		{text: "hello"}, {index: 0},
	}}
	var out bytes.Buffer
	w := newWizard(t, driver, &out, WithAppName("Enroll"))

	sub, err := w.Run(context.Background(), f)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sub.Values["note"].Text() != "hello" {
		t.Fatalf("unexpected submission %+v", sub)
	}
	if client.creates != 2 || client.gets != 2 {
		t.Fatalf("creates=%d gets=%d", client.creates, client.gets)
	}
	if f.View() != flow.ViewSubmitted {
		t.Fatalf("view = %s", f.View())
	}
	for _, fragment := range []string{
		"Enroll\n======",
		"invalid: roll number is required",
		"✗ Registration failed: roll number taken",
		"✗ Could not load your form: server down",
	} {
		if !driver.infoContaining(fragment) {
			t.Fatalf("missing %q in %q", fragment, driver.infos)
		}
	}
	if out.String() != "note=hello\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestWizardRun_DeclinedRetry(t *testing.T) {
	fetchErr := errors.New("server down")
	client := &fakeClient{getErrs: []error{fetchErr}}
	f := flow.New(client)
	driver := &stubDriver{t: t, answers: []answer{
		{text: "R1"}, {text: "Ada"},
		{confirm: false},
	}}
	w := newWizard(t, driver, &bytes.Buffer{})

	_, err := w.Run(context.Background(), f)
	if !errors.Is(err, ErrDeclinedRetry) || !errors.Is(err, fetchErr) {
		t.Fatalf("expected declined retry wrapping fetch error, got %v", err)
	}
	if f.View() != flow.ViewLoading {
		t.Fatalf("view = %s", f.View())
	}
}

func TestWizardRun_FailedRetryShowsNewError(t *testing.T) {
	client := &fakeClient{
		getErrs: []error{errors.New("server down"), errors.New("still down")},
		form: schema.Form{Title: "One", Sections: []schema.Section{{Title: "Only", Fields: []schema.Field{
			{ID: "note", Type: schema.FieldTypeText, Label: "Note"},
		}}}},
	}
	f := flow.New(client, flow.WithSessionOptions(sessionOptions()...))
	driver := &stubDriver{t: t, answers: []answer{
		{text: "R1"}, {text: "Ada"},
		{confirm: true},
		{confirm: true},
		{text: "hi"}, {index: 0},
	}}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := newWizard(t, driver, &bytes.Buffer{}, WithLogger(logger))

	if _, err := w.Run(context.Background(), f); err != nil {
		t.Fatalf("run: %v", err)
	}
	if client.gets != 3 {
		t.Fatalf("gets = %d, want 3", client.gets)
	}
	if !driver.infoContaining("Could not load your form: still down") {
		t.Fatalf("second failure not shown in %q", driver.infos)
	}
	if !strings.Contains(logs.String(), "retry failed") {
		t.Fatalf("failed retry not logged: %q", logs.String())
	}
}

func TestWizardRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := newWizard(t, &stubDriver{t: t}, &bytes.Buffer{})
	if _, err := w.Run(ctx, flow.New(&fakeClient{})); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFieldHelp(t *testing.T) {
	cases := []struct {
		field schema.Field
		want  string
	}{
		{schema.Field{Type: schema.FieldTypeText}, ""},
		{schema.Field{Type: schema.FieldTypeText, Placeholder: "Ada", MinLength: schema.IntPtr(2), MaxLength: schema.IntPtr(10)}, "e.g. Ada; at least 2 characters; at most 10 characters"},
		{schema.Field{Type: schema.FieldTypeDate}, "format YYYY-MM-DD"},
		{schema.Field{Type: schema.FieldTypeCheckbox, MinLength: schema.IntPtr(1), MaxLength: schema.IntPtr(0)}, "at least 1 selections"},
	}
	for _, tc := range cases {
		if got := fieldHelp(tc.field); got != tc.want {
			t.Fatalf("fieldHelp(%+v) = %q, want %q", tc.field, got, tc.want)
		}
	}
}
