package sim

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rowsim/internal/autoplay"
	"github.com/san-kum/rowsim/internal/rowstate"
)

type countingMetric struct {
	ticks int
}

func (m *countingMetric) Name() string                            { return "count" }
func (m *countingMetric) Observe(tick int, states []rowstate.State) { m.ticks++ }
func (m *countingMetric) Value() float64                          { return float64(m.ticks) }
func (m *countingMetric) Reset()                                  { m.ticks = 0 }

func twoPanels() Config {
	return Config{
		Panels: []PanelSpec{
			{Name: "left", Init: sourceState(), Coupling: rowstate.Clamped},
			{Name: "right", Init: sourceState(), Coupling: rowstate.Clamped},
		},
		Interval: 500 * time.Millisecond,
	}
}

var _ = Describe("Session", func() {
	var (
		sched   *manualScheduler
		session *Session
	)

	BeforeEach(func() {
		sched = &manualScheduler{}
		session = NewSession(twoPanels(), WithScheduler(sched))
	})

	AfterEach(func() {
		session.Close()
	})

	Describe("TickAll", func() {
		It("advances every panel together", func() {
			session.TickAll()
			for _, st := range session.States() {
				Expect(st.Top.Pos).To(Equal(1))
				Expect(st.Mid.Pos).To(Equal(1))
				Expect(st.Btm.Pos).To(Equal(-1))
			}
			Expect(session.AllMatch()).To(BeTrue())
			Expect(session.Ticks()).To(Equal(1))
		})

		It("is a no-op with no panels", func() {
			empty := NewSession(Config{}, WithScheduler(sched))
			defer empty.Close()
			empty.TickAll()
			Expect(empty.States()).To(BeEmpty())
			Expect(empty.AllMatch()).To(BeTrue())
			Expect(empty.Ticks()).To(Equal(0))
		})

		It("notifies observers with copies", func() {
			var seen []int
			session.AddObserver(ObserverFunc(func(tick int, states []rowstate.State) {
				seen = append(seen, tick)
				states[0].Top.Pos = 99
			}))
			session.TickAll()
			session.TickAll()
			Expect(seen).To(Equal([]int{1, 2}))
			Expect(session.States()[0].Top.Pos).NotTo(Equal(99))
		})
	})

	Describe("SetField", func() {
		It("breaks agreement between panels", func() {
			Expect(session.AllMatch()).To(BeTrue())
			ok, err := session.SetField(1, "btm", "max", "5")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(session.AllMatch()).To(BeFalse())
			Expect(session.Mismatches()).To(Equal([]PanelID{1}))
		})

		It("ignores text without a leading integer", func() {
			ok, err := session.SetField(0, "top", "pos", "abc")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(session.AllMatch()).To(BeTrue())
		})

		It("rejects unknown names and panels", func() {
			_, err := session.SetField(5, "top", "pos", "1")
			Expect(errors.Is(err, ErrNoSuchPanel)).To(BeTrue())
			_, err = session.SetField(0, "side", "pos", "1")
			Expect(errors.Is(err, rowstate.ErrUnknownRow)).To(BeTrue())
			_, err = session.SetField(0, "top", "mean", "1")
			Expect(errors.Is(err, rowstate.ErrUnknownField)).To(BeTrue())
		})
	})

	Describe("autoplay", func() {
		It("toggles on and off without ticking", func() {
			before := session.States()
			Expect(session.ToggleAutoplay()).To(BeTrue())
			Expect(session.ToggleAutoplay()).To(BeFalse())
			Expect(session.States()).To(Equal(before))
			Expect(sched.live()).To(Equal(0))
		})

		It("ticks when the live task fires", func() {
			session.ToggleAutoplay()
			sched.last().fn()
			Expect(session.Ticks()).To(Equal(1))
		})

		It("drops fires from a stopped task", func() {
			session.ToggleAutoplay()
			task := sched.last()
			session.ToggleAutoplay()
			task.fn()
			Expect(session.Ticks()).To(Equal(0))
		})

		It("keeps a single live task across interval changes", func() {
			session.ToggleAutoplay()
			for ms := 100; ms <= 2000; ms += 50 {
				Expect(session.SetInterval(ms)).To(Succeed())
				Expect(sched.live()).To(Equal(1))
				Expect(session.ActiveTasks()).To(BeNumerically("<=", 1))
			}
			running, interval := session.Autoplay()
			Expect(running).To(BeTrue())
			Expect(interval).To(Equal(2000 * time.Millisecond))
			Expect(sched.last().d).To(Equal(2000 * time.Millisecond))
		})

		It("ignores a fire from a task replaced by an interval change", func() {
			session.ToggleAutoplay()
			old := sched.last()
			Expect(session.SetInterval(200)).To(Succeed())
			old.fn()
			Expect(session.Ticks()).To(Equal(0))
			sched.last().fn()
			Expect(session.Ticks()).To(Equal(1))
		})

		It("rejects non-positive intervals", func() {
			err := session.SetInterval(0)
			Expect(errors.Is(err, autoplay.ErrInvalidInterval)).To(BeTrue())
			_, interval := session.Autoplay()
			Expect(interval).To(Equal(500 * time.Millisecond))
		})

		It("routes fires through a custom dispatcher", func() {
			var got []uint64
			session.SetDispatcher(func(gen uint64) { got = append(got, gen) })
			session.ToggleAutoplay()
			sched.last().fn()
			Expect(got).To(HaveLen(1))
			Expect(session.Ticks()).To(Equal(0))
			Expect(session.HandleFire(got[0])).To(BeTrue())
			Expect(session.Ticks()).To(Equal(1))
		})
	})

	Describe("Run", func() {
		It("records the initial state and every tick", func() {
			m := &countingMetric{}
			session.AddMetric(m)
			res, err := session.Run(context.Background(), 13)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(13))
			Expect(res.States).To(HaveLen(14))
			Expect(res.Panels).To(Equal([]string{"left", "right"}))
			Expect(res.Metrics).To(HaveKeyWithValue("count", 13.0))

			// period 12 after the first tick
			Expect(res.States[13][0]).To(Equal(res.States[1][0]))
			Expect(res.Matches).To(HaveEach(BeTrue()))
		})

		It("rejects non-positive step counts", func() {
			_, err := session.Run(context.Background(), 0)
			Expect(errors.Is(err, ErrInvalidSteps)).To(BeTrue())
		})

		It("stops on cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := session.Run(ctx, 10)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Ticks).To(Equal(0))
		})

		It("paces ticks when asked", func() {
			start := time.Now()
			res, err := session.RunPaced(context.Background(), 3, 10*time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Ticks).To(Equal(3))
			Expect(time.Since(start)).To(BeNumerically(">=", 30*time.Millisecond))
		})
	})

	Describe("Reset", func() {
		It("restores initial states", func() {
			session.TickAll()
			_, _ = session.SetField(0, "top", "min", "-7")
			session.Reset()
			Expect(session.States()).To(Equal([]rowstate.State{sourceState(), sourceState()}))
			Expect(session.Ticks()).To(Equal(0))
		})
	})

	Describe("Panels", func() {
		It("returns named snapshots", func() {
			infos := session.Panels()
			Expect(infos).To(HaveLen(2))
			Expect(infos[1].Name).To(Equal("right"))
			Expect(infos[1].ID).To(Equal(PanelID(1)))

			_, err := session.Panel(3)
			Expect(err).To(MatchError(ErrNoSuchPanel))
		})
	})
})
