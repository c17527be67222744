package ecs

import "github.com/hajimehoshi/ebiten/v2"

// Scheduler groups systems so they can be added to a world as one.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

// Draw forwards to every scheduled system that draws.
func (s *Scheduler) Draw(w *World, screen *ebiten.Image) {
	for _, system := range s.systems {
		if d, ok := system.(Drawer); ok {
			d.Draw(w, screen)
		}
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
