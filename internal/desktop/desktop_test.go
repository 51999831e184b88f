package desktop

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/playmatatu/plinko/internal/game"
	"github.com/quasilyte/gdata/v2"
)

type memStore struct {
	data    map[string][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) ObjectPropExists(obj, prop string) bool {
	_, ok := m.data[obj+"/"+prop]
	return ok
}

func (m *memStore) LoadObjectProp(obj, prop string) ([]byte, error) {
	return m.data[obj+"/"+prop], nil
}

func (m *memStore) SaveObjectProp(obj, prop string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[obj+"/"+prop] = append([]byte(nil), data...)
	return nil
}

func TestSaveStoreRoundTrip(t *testing.T) {
	s := &SaveStore{store: newMemStore()}
	if _, ok, err := s.Load(); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}
	want := Save{Score: 123.5, Wager: 2, Count: 7, Drops: 3, BestWin: 200}
	if err := s.Store(want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Load()
	if err != nil || !ok || got != want {
		t.Fatalf("Load = %+v ok=%v err=%v, want %+v", got, ok, err, want)
	}
}

func TestSaveStoreErrors(t *testing.T) {
	mem := newMemStore()
	mem.data[saveObject+"/"+saveProperty] = []byte("score: [oops")
	s := &SaveStore{store: mem}
	if _, ok, err := s.Load(); err == nil || ok {
		t.Fatalf("corrupt save: ok=%v err=%v", ok, err)
	}

	mem.saveErr = errors.New("disk full")
	if err := s.Store(Save{}); !errors.Is(err, mem.saveErr) {
		t.Fatalf("Store error = %v", err)
	}
}

func TestSaveStoreWithoutBacking(t *testing.T) {
	s := NewSaveStore(nil)
	if err := s.Store(Save{Score: 5}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Load(); ok || err != nil {
		t.Fatalf("in-memory store loaded ok=%v err=%v", ok, err)
	}
}

func TestSaveStoreWithGdata(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	m, err := gdata.Open(gdata.Config{AppName: "plinko_test"})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	s := NewSaveStore(m)
	if err := s.Store(Save{Score: 42, Wager: 1, Count: 2}); err != nil {
		t.Fatal(err)
	}
	got, ok, err := NewSaveStore(m).Load()
	if err != nil || !ok || got.Score != 42 || got.Count != 2 {
		t.Fatalf("Load = %+v ok=%v err=%v", got, ok, err)
	}
}

func TestToneBytes(t *testing.T) {
	tn := tone{freqs: []float64{440, 880}, duration: 0.1, volume: 0.5}
	buf := toneBytes(tn, 48000)
	if len(buf) != 2*2400*4 {
		t.Fatalf("len = %d, want %d", len(buf), 2*2400*4)
	}
	for i := 0; i < len(buf); i += 4 {
		l := int16(binary.LittleEndian.Uint16(buf[i:]))
		r := int16(binary.LittleEndian.Uint16(buf[i+2:]))
		if l != r {
			t.Fatalf("sample %d: channels differ %d/%d", i/4, l, r)
		}
		if l > 16384 || l < -16384 {
			t.Fatalf("sample %d exceeds volume: %d", i/4, l)
		}
	}
	if toneBytes(tone{}, 48000) != nil {
		t.Fatal("empty tone should render nothing")
	}
}

func newTestApp(t *testing.T, store *SaveStore) *App {
	t.Helper()
	app, err := NewApp(game.DefaultBoard(), 100, 1, store, nil)
	if err != nil {
		t.Fatal(err)
	}
	return app
}

func TestAppStartsFromSave(t *testing.T) {
	mem := newMemStore()
	store := &SaveStore{store: mem}
	if err := store.Store(Save{Score: 40, Wager: 4, Count: 3}); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, store)
	e := app.sim.Economy()
	if e.Score != 40 || e.Wager != 4 || e.Count != 3 {
		t.Fatalf("economy = %+v", e)
	}
}

func TestAppControls(t *testing.T) {
	app := newTestApp(t, NewSaveStore(nil))

	app.apply(actWagerUp)
	if w := app.sim.Economy().Wager; w != 2 {
		t.Fatalf("wager after up = %v", w)
	}
	app.apply(actWagerDown)
	app.apply(actWagerDown)
	if w := app.sim.Economy().Wager; w != 0.5 {
		t.Fatalf("wager after two downs = %v", w)
	}

	app.apply(actCountMax)
	if c := app.sim.Economy().Count; c != 200 {
		t.Fatalf("max count = %d", c)
	}
	app.apply(actCountUp)
	if app.notice == "" {
		t.Fatal("expected affordability notice")
	}
	app.apply(actCountDown)
	if c := app.sim.Economy().Count; c != 199 {
		t.Fatalf("count = %d", c)
	}

	app.apply(actDrop)
	if app.sim.QueuedBalls() != 199 || app.save.Drops != 1 {
		t.Fatalf("queued %d drops %d", app.sim.QueuedBalls(), app.save.Drops)
	}
	app.apply(actCancel)
	if app.sim.QueuedBalls() != 0 || app.sim.Economy().Score != 100 {
		t.Fatalf("after cancel: queued %d score %v", app.sim.QueuedBalls(), app.sim.Economy().Score)
	}
}

func TestAppPersistsOnSettleAndClose(t *testing.T) {
	mem := newMemStore()
	app := newTestApp(t, &SaveStore{store: mem})
	app.apply(actDrop)
	for i := 0; i < 100000 && app.sim.Status() != game.StatusIdle; i++ {
		app.tick()
	}
	if !mem.ObjectPropExists(saveObject, saveProperty) {
		t.Fatal("expected save after batch settled")
	}

	app.setCount(5)
	app.apply(actDrop)
	app.Close()
	got, ok, err := (&SaveStore{store: mem}).Load()
	if err != nil || !ok {
		t.Fatalf("Load ok=%v err=%v", ok, err)
	}
	if got.Score != app.sim.Economy().Score || got.Drops != 2 {
		t.Fatalf("saved %+v, economy %+v", got, app.sim.Economy())
	}
}

func TestLayoutResizes(t *testing.T) {
	app := newTestApp(t, NewSaveStore(nil))
	w, h := app.Layout(1024, 768)
	if w != 1024 || h != 768 {
		t.Fatalf("Layout = %d,%d", w, h)
	}
	app.tick()
	if g := app.sim.Geometry(); g.ViewportWidth != 1024 || g.ViewportHeight != 768 {
		t.Fatalf("geometry = %+v", g)
	}
}

func TestWallPlacement(t *testing.T) {
	app := newTestApp(t, NewSaveStore(nil))
	app.Layout(1280, 720)
	app.tick()
	g := app.sim.Geometry()

	left, right := wallXs(g)
	if left != g.Left+g.WallMargin {
		t.Errorf("left wall at %v, want %v", left, g.Left+g.WallMargin)
	}
	if want := g.Left + g.GameWidth - g.WallWidth - g.WallMargin; right != want {
		t.Errorf("right wall at %v, want %v", right, want)
	}
	min, max := g.WallBounds()
	if min != left+g.BallRadius || max != right-g.BallRadius {
		t.Errorf("ball clamp [%v,%v] does not line up with walls at %v and %v", min, max, left, right)
	}
}
