package layout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestRenderWithoutChangesStacksLines 验证无样式变更时，输出等价于逐行独立渲染后纵向拼接。
func TestRenderWithoutChangesStacksLines(t *testing.T) {
	text := newTestText("ab\ncde\n\nf")
	opts, rast, _ := testOptions()

	res, err := text.Render(opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	wantY := []int{0, 17, 34, 51}
	wantW := []int{16, 24, 0, 8}
	if len(res.Lines) != len(wantY) {
		t.Fatalf("expected %d lines, got %d", len(wantY), len(res.Lines))
	}
	for i, ln := range res.Lines {
		if ln.Y != wantY[i] || ln.Width != wantW[i] || ln.Height != 16 {
			t.Fatalf("line %d geometry: got y=%d w=%d h=%d", i, ln.Y, ln.Width, ln.Height)
		}
	}
	if res.TotalHeight != 67 || res.HalfHeight != 33 {
		t.Fatalf("heights: got TH=%d HTH=%d", res.TotalHeight, res.HalfHeight)
	}

	for i, part := range strings.Split(text.Content, "\n") {
		ov := newOverlay(text.Style)
		alone, err := renderLine(newStub(), &ov, []rune(part), 0, nil)
		if err != nil {
			t.Fatalf("renderLine %d: %v", i, err)
		}
		if !bytes.Equal(alone.Pix, res.Lines[i].image.Pix) || alone.Bounds() != res.Lines[i].image.Bounds() {
			t.Fatalf("line %d differs from independent rendering", i)
		}
	}

	var texts []string
	for _, c := range rast.calls {
		texts = append(texts, c.Text)
	}
	if diff := cmp.Diff([]string{"ab", "cde", "", "f"}, texts); diff != "" {
		t.Fatalf("rasterized runs mismatch (-want +got):\n%s", diff)
	}
}

func TestColorChangeAtDocumentStart(t *testing.T) {
	text := newTestText("abc")
	text.Changes = []StyleChange{ColorAt(0, red)}
	opts, rast, _ := testOptions()

	res, err := text.Render(opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := []stubCall{
		{Text: "", Antialias: true, Color: white},
		{Text: "abc", Antialias: true, Color: red},
	}
	if diff := cmp.Diff(want, rast.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if got := res.Canvas.NRGBAAt(0, 0); got != red {
		t.Fatalf("first pixel should be red, got %v", got)
	}
}

func TestChangeAtLineEndAppliesToFollowingLines(t *testing.T) {
	text := newTestText("ab\ncd")
	text.Changes = []StyleChange{ColorAt(2, red)}
	opts, rast, _ := testOptions()

	res, err := text.Render(opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := []stubCall{
		{Text: "ab", Antialias: true, Color: white},
		{Text: "cd", Antialias: true, Color: red},
	}
	if diff := cmp.Diff(want, rast.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if got := res.Canvas.NRGBAAt(0, 0); got != white {
		t.Fatalf("line 1 should stay white, got %v", got)
	}
	if got := res.Canvas.NRGBAAt(0, 17); got != red {
		t.Fatalf("line 2 should be red, got %v", got)
	}
}

func TestChangeAtDocumentEndDoesNotFail(t *testing.T) {
	text := newTestText("ab")
	text.Changes = []StyleChange{ColorAt(2, red), ColorAt(50, blue)}
	opts, rast, _ := testOptions()

	if _, err := text.Render(opts); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if len(rast.calls) != 1 || rast.calls[0].Color != white {
		t.Fatalf("unexpected calls: %+v", rast.calls)
	}
}

func TestSpacingChangeMidLineAffectsFollowingLine(t *testing.T) {
	text := newTestText("ab\ncd")
	text.Changes = []StyleChange{SpacingAt(1, 10)}
	opts, _, _ := testOptions()

	res, err := text.Render(opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if res.Lines[1].Y != 26 {
		t.Fatalf("second line y: want 26, got %d", res.Lines[1].Y)
	}
	// 末尾行距只扣除一次，且使用变更后的值
	if res.TotalHeight != 42 {
		t.Fatalf("total height: want 42, got %d", res.TotalHeight)
	}
}

func TestChangesAtSamePositionApplyInSubmissionOrder(t *testing.T) {
	text := newTestText("abc")
	text.Changes = []StyleChange{ColorAt(1, red), ColorAt(1, blue)}
	opts, rast, _ := testOptions()

	if _, err := text.Render(opts); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := []stubCall{
		{Text: "a", Antialias: true, Color: white},
		{Text: "", Antialias: true, Color: red},
		{Text: "bc", Antialias: true, Color: blue},
	}
	if diff := cmp.Diff(want, rast.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

// TestRenderIsIdempotentAndKeepsBaseStyle 是覆盖状态泄漏的回归测试。
func TestRenderIsIdempotentAndKeepsBaseStyle(t *testing.T) {
	text := newTestText("ab\ncd\nef")
	text.Changes = []StyleChange{SpacingAt(4, 5), ColorAt(1, red), AntialiasAt(3, false)}
	text.Cursor = 4
	baseStyle := text.Style
	baseChanges := append([]StyleChange(nil), text.Changes...)
	opts, _, _ := testOptions()

	first, err := text.Render(opts)
	if err != nil {
		t.Fatalf("first Render error: %v", err)
	}
	second, err := text.Render(opts)
	if err != nil {
		t.Fatalf("second Render error: %v", err)
	}

	if first.Canvas.Bounds() != second.Canvas.Bounds() || !bytes.Equal(first.Canvas.Pix, second.Canvas.Pix) {
		t.Fatalf("renders differ between calls")
	}
	if diff := cmp.Diff(baseStyle, text.Style); diff != "" {
		t.Fatalf("base style changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(baseChanges, text.Changes); diff != "" {
		t.Fatalf("changes reordered (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(first.Cursor, second.Cursor); diff != "" {
		t.Fatalf("cursor differs (-first +second):\n%s", diff)
	}
}

func TestEmptyContentWithCursor(t *testing.T) {
	text := newTestText("")
	text.Cursor = 0
	opts, rast, _ := testOptions()

	res, err := text.Render(opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if res.TotalHeight != 0 || res.HalfHeight != 0 {
		t.Fatalf("expected zero heights, got TH=%d HTH=%d", res.TotalHeight, res.HalfHeight)
	}
	if res.Cursor != nil {
		t.Fatalf("expected no cursor, got %+v", res.Cursor)
	}
	if !res.Canvas.Bounds().Empty() {
		t.Fatalf("expected zero-area canvas, got %v", res.Canvas.Bounds())
	}
	if len(rast.calls) != 0 {
		t.Fatalf("rasterizer should not be called, got %d calls", len(rast.calls))
	}
}

func TestUnsupportedStyleKindFailsWithoutOutput(t *testing.T) {
	text := newTestText("abc")
	text.Changes = []StyleChange{ColorAt(0, red), {Pos: 1, Kind: Kind(42)}}
	opts, rast, _ := testOptions()

	res, err := text.Render(opts)
	if !errors.Is(err, ErrUnsupportedStyleKind) {
		t.Fatalf("expected ErrUnsupportedStyleKind, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no result, got %+v", res)
	}
	if len(rast.calls) != 0 {
		t.Fatalf("rasterizer should not be called, got %d calls", len(rast.calls))
	}
}

func TestRasterizerFailureAbortsRender(t *testing.T) {
	text := newTestText("abc\ndef")
	opts, rast, _ := testOptions()
	rast.failOn = "d"

	res, err := text.Render(opts)
	if !errors.Is(err, errInvalidGlyph) {
		t.Fatalf("expected rasterizer error, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no partial result")
	}
}

func TestRenderRequiresCollaborators(t *testing.T) {
	text := newTestText("abc")
	if _, err := text.Render(RenderOptions{}); err == nil {
		t.Fatalf("expected error without rasterizer")
	}
	if _, err := text.Render(RenderOptions{Rasterizer: newStub()}); err == nil {
		t.Fatalf("expected error without metrics")
	}
}

func TestResultExtra(t *testing.T) {
	text := newTestText("a\nb\nc")
	opts, _, _ := testOptions()
	res, err := text.Render(opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := map[string]int{"TH": 50, "HTH": 25}
	if diff := cmp.Diff(want, res.Extra()); diff != "" {
		t.Fatalf("extra mismatch (-want +got):\n%s", diff)
	}
	var nilResult *Result
	if got := nilResult.Extra()["TH"]; got != 0 {
		t.Fatalf("nil result TH: %d", got)
	}
}

func TestSetText(t *testing.T) {
	text := newTestText("old")
	text.SetText("new\ntext")
	opts, _, _ := testOptions()
	res, err := text.Render(opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("expected 2 lines after SetText, got %d", len(res.Lines))
	}
}
