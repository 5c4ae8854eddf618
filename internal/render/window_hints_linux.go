//go:build linux

package render

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// ApplyWindowHints sets X11 EWMH state hints on the plot window so it can
// skip the taskbar and pager. Must be called after the window exists,
// i.e. once the Ebiten loop is running. Non-X11 environments and lookup
// failures are silently ignored: the hints are cosmetic and the plot is
// fully functional without them.
func ApplyWindowHints(skipTaskbar, skipPager bool) error {
	if !skipTaskbar && !skipPager {
		return nil
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return nil
	}
	defer conn.Close()

	h := &hintSession{conn: conn, atoms: make(map[string]xproto.Atom)}
	return h.apply(skipTaskbar, skipPager)
}

// hintSession caches interned atoms for one ApplyWindowHints call.
type hintSession struct {
	conn  *xgb.Conn
	atoms map[string]xproto.Atom
}

func (h *hintSession) apply(skipTaskbar, skipPager bool) error {
	window, err := h.activeWindow()
	if err != nil || window == xproto.WindowNone {
		return nil
	}

	var wanted []xproto.Atom
	if skipTaskbar {
		if atom, err := h.atom("_NET_WM_STATE_SKIP_TASKBAR"); err == nil {
			wanted = append(wanted, atom)
		}
	}
	if skipPager {
		if atom, err := h.atom("_NET_WM_STATE_SKIP_PAGER"); err == nil {
			wanted = append(wanted, atom)
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	stateAtom, err := h.atom("_NET_WM_STATE")
	if err != nil {
		return nil
	}
	atomAtom, err := h.atom("ATOM")
	if err != nil {
		return nil
	}

	// Merge with the states the window manager already set.
	merged := make(map[xproto.Atom]bool)
	for _, a := range h.windowState(window, stateAtom, atomAtom) {
		merged[a] = true
	}
	for _, a := range wanted {
		merged[a] = true
	}

	final := make([]xproto.Atom, 0, len(merged))
	for a := range merged {
		final = append(final, a)
	}

	data := make([]byte, len(final)*4)
	for i, a := range final {
		xgb.Put32(data[i*4:], uint32(a))
	}
	xproto.ChangeProperty(h.conn, xproto.PropModeReplace, window,
		stateAtom, atomAtom, 32, uint32(len(final)), data)
	return nil
}

// atom interns an X11 atom by name, with per-session caching.
func (h *hintSession) atom(name string) (xproto.Atom, error) {
	if atom, ok := h.atoms[name]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(h.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	h.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// activeWindow finds the freshly created plot window: the EWMH active
// window, or the input-focus window as a fallback.
func (h *hintSession) activeWindow() (xproto.Window, error) {
	setup := xproto.Setup(h.conn)
	if len(setup.Roots) == 0 {
		return xproto.WindowNone, nil
	}
	root := setup.Roots[0].Root

	if activeAtom, err := h.atom("_NET_ACTIVE_WINDOW"); err == nil {
		reply, err := xproto.GetProperty(h.conn, false, root, activeAtom,
			xproto.AtomWindow, 0, 1).Reply()
		if err == nil && reply != nil && len(reply.Value) >= 4 {
			return xproto.Window(xgb.Get32(reply.Value)), nil
		}
	}

	focusReply, err := xproto.GetInputFocus(h.conn).Reply()
	if err != nil {
		return xproto.WindowNone, err
	}
	return focusReply.Focus, nil
}

// windowState reads the window's current _NET_WM_STATE atoms.
func (h *hintSession) windowState(window xproto.Window, stateAtom, atomAtom xproto.Atom) []xproto.Atom {
	reply, err := xproto.GetProperty(h.conn, false, window, stateAtom,
		atomAtom, 0, 256).Reply()
	if err != nil || reply == nil {
		return nil
	}
	atoms := make([]xproto.Atom, 0, len(reply.Value)/4)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		atoms = append(atoms, xproto.Atom(xgb.Get32(reply.Value[i:])))
	}
	return atoms
}
