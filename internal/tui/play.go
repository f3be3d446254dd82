package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/session"
)

// noticeFrames is how long an event notice stays on screen.
const noticeFrames = 120

// Player runs a session in the terminal: it drives the scheduler from the UI
// loop, turns clicks into shots and shows game events as notices.
type Player struct {
	sess     *session.Session
	screen   tcell.Screen
	render   *Renderer
	notice   string
	noticeTT int
}

func NewPlayer(screen tcell.Screen, sess *session.Session) *Player {
	return &Player{sess: sess, screen: screen, render: NewRenderer(screen)}
}

// Handle applies one input event. It returns false when the player quits.
func (p *Player) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case '+', '=':
				p.sess.BetUp()
			case '-', '_':
				p.sess.BetDown()
			case 'c':
				_, _ = p.sess.TopUp()
			}
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return true
		}
		cx, cy := ev.Position()
		x, y := p.render.ToWorld(p.sess.Snapshot(), cx, cy)
		// invalid aim and empty purses surface as events, not errors
		if _, err := p.sess.Fire(x, y); err != nil && errors.Is(err, gallery.ErrStopped) {
			return false
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

func (p *Player) note(ev gallery.Event) {
	p.notice = ev.Description
	p.noticeTT = noticeFrames
}

// Frame renders the current snapshot with the HUD.
func (p *Player) Frame() {
	if p.noticeTT > 0 {
		p.noticeTT--
		if p.noticeTT == 0 {
			p.notice = ""
		}
	}
	st := p.sess.Status()
	p.render.Draw(p.sess.Snapshot(), HUD{Balance: st.Balance, Stake: st.Stake, Score: st.Score, Jackpot: st.Jackpot, Notice: p.notice})
}

// poll forwards screen events until the screen is finalized or done closes.
func (p *Player) poll(input chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case input <- ev:
		case <-done:
			return
		}
	}
}

// Loop runs until the player quits, ctx is done or the session halts. The
// session is closed on return.
func (p *Player) Loop(ctx context.Context, fps int) error {
	defer p.sess.Close()
	p.screen.EnableMouse()
	events, cancel := p.sess.Subscribe()
	defer cancel()

	input := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go p.poll(input, done)

	sched := p.sess.Scheduler()
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-input:
			if !p.Handle(ev) {
				return nil
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			p.note(ev)
		case now := <-ticker.C:
			if _, err := sched.Advance(now.Sub(last)); err != nil {
				if errors.Is(err, gallery.ErrStopped) {
					return sched.Err()
				}
				return err
			}
			last = now
			p.Frame()
		}
	}
}
