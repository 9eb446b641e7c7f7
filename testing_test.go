package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rbaliyan/hook/payload"
)

func TestRecorderSnapshots(t *testing.T) {
	codecs := []payload.Codec{payload.JSON{}, payload.MsgPack{}, payload.Proto{}}
	for _, codec := range codecs {
		t.Run(codec.ContentType(), func(t *testing.T) {
			rec := NewRecorder(codec)
			d := TestDispatcher(WithMiddleware(rec.Middleware()))

			// Mutates its input in place; the recorded input must not change.
			d.Add("e", Transform(func(a Args) Args {
				a["name"] = a["name"].(string) + "-x"
				return a
			}), 1)
			d.Add("e", CallbackFunc(func(context.Context, Args) (Args, error) {
				return nil, nil
			}), 2)

			if _, err := d.Apply(context.Background(), "e", Args{"name": "a"}); err != nil {
				t.Fatalf("apply failed: %v", err)
			}

			steps := rec.StepsFor("e")
			if len(steps) != 2 {
				t.Fatalf("expected 2 steps, got %d", len(steps))
			}
			type doc struct {
				Name string `json:"name" msgpack:"name"`
			}
			if codec.ContentType() == (payload.Proto{}).ContentType() {
				var in map[string]any
				if err := steps[0].DecodeInput(&in); err != nil {
					t.Fatalf("decode failed: %v", err)
				}
				if diff := cmp.Diff(map[string]any{"name": "a"}, in); diff != "" {
					t.Errorf("unexpected input (-want +got):\n%s", diff)
				}
			} else {
				var in, out doc
				if err := steps[0].DecodeInput(&in); err != nil {
					t.Fatalf("decode failed: %v", err)
				}
				if err := steps[0].DecodeOutput(&out); err != nil {
					t.Fatalf("decode failed: %v", err)
				}
				if in.Name != "a" || out.Name != "a-x" {
					t.Errorf("unexpected snapshots in=%+v out=%+v", in, out)
				}
			}

			if steps[0].Priority != 1 || steps[1].Priority != 2 {
				t.Errorf("unexpected priorities %v, %v", steps[0].Priority, steps[1].Priority)
			}
			if steps[0].Index != 0 || steps[1].Index != 1 {
				t.Errorf("unexpected indexes %d, %d", steps[0].Index, steps[1].Index)
			}
			if steps[0].ApplyID == "" || steps[0].ApplyID != steps[1].ApplyID {
				t.Error("steps should share the apply id")
			}
			if steps[0].ContentType != codec.ContentType() {
				t.Errorf("unexpected content type %q", steps[0].ContentType)
			}
		})
	}
}

func TestRecorderErrorsAndReset(t *testing.T) {
	rec := NewRecorder(nil)
	d := TestDispatcher(WithMiddleware(rec.Middleware()))
	errFail := errors.New("fail")
	d.Add("ok", Transform(func(a Args) Args { return a }))
	d.Add("bad", CallbackFunc(func(context.Context, Args) (Args, error) {
		return nil, errFail
	}))

	_, _ = d.Apply(context.Background(), "ok", nil)
	_, _ = d.Apply(context.Background(), "bad", nil)
	_, _ = d.Apply(context.Background(), "none", nil)

	if rec.Count() != 2 {
		t.Fatalf("expected 2 steps, got %d", rec.Count())
	}
	bad := rec.StepsFor("bad")
	if len(bad) != 1 || bad[0].Err != errFail || bad[0].Output != nil {
		t.Errorf("unexpected failed step %+v", bad)
	}
	if got := rec.Steps(); got[0].Event != "ok" {
		t.Errorf("unexpected first step %+v", got[0])
	}

	rec.Reset()
	if rec.Count() != 0 {
		t.Errorf("expected no steps after reset, got %d", rec.Count())
	}
}

// reversedJSON is a codec unknown to the payload registry.
type reversedJSON struct{}

func (reversedJSON) Encode(v any) ([]byte, error) {
	data, err := payload.JSON{}.Encode(v)
	return reverse(data), err
}

func (reversedJSON) Decode(data []byte, v any) error {
	return payload.JSON{}.Decode(reverse(data), v)
}

func (reversedJSON) ContentType() string { return "application/x-reversed-json" }

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

func TestRecorderUnregisteredCodec(t *testing.T) {
	rec := NewRecorder(reversedJSON{})
	d := TestDispatcher(WithMiddleware(rec.Middleware()))
	d.Add("e", Transform(func(Args) Args { return Args{"name": "out"} }))

	if _, err := d.Apply(context.Background(), "e", Args{"name": "in"}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	steps := rec.Steps()
	if len(steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(steps))
	}
	var in, out map[string]any
	if err := steps[0].DecodeInput(&in); err != nil {
		t.Fatalf("decode input failed: %v", err)
	}
	if err := steps[0].DecodeOutput(&out); err != nil {
		t.Fatalf("decode output failed: %v", err)
	}
	if in["name"] != "in" || out["name"] != "out" {
		t.Errorf("unexpected snapshots in=%v out=%v", in, out)
	}
}

func TestRecordedStepUnknownContentType(t *testing.T) {
	step := RecordedStep{ContentType: "application/x-unknown", Input: []byte(`{"a":1}`)}
	var v map[string]any
	if err := step.DecodeInput(&v); !errors.Is(err, payload.ErrDecodeFailure) {
		t.Errorf("expected ErrDecodeFailure, got %v", err)
	}
}
