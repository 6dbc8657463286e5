package nbody

func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for i := range s.working {
		p := &s.working[i]
		v := p.Velocity.Norm()
		ke += 0.5 * p.Mass * v * v
	}
	return ke
}

// PotentialEnergy sums -G m_i m_j / r over distinct pairs. Coincident
// pairs are skipped, matching the force guard.
func (s *System) PotentialEnergy() float64 {
	pe := 0.0
	for i := range s.working {
		for j := i + 1; j < len(s.working); j++ {
			r := s.working[i].Position.Distance(s.working[j].Position)
			if r == 0 {
				continue
			}
			pe -= G * s.working[i].Mass * s.working[j].Mass / r
		}
	}
	return pe
}

func (s *System) TotalEnergy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

func (s *System) Momentum() Vector {
	var p Vector
	for i := range s.working {
		p = p.Add(s.working[i].Velocity.Scale(s.working[i].Mass))
	}
	return p
}

// AngularMomentum is taken about the origin.
func (s *System) AngularMomentum() Vector {
	var l Vector
	for i := range s.working {
		p := &s.working[i]
		r := p.Position.Sub(Point{})
		l = l.Add(r.Cross(p.Velocity.Scale(p.Mass)))
	}
	return l
}

func (s *System) CenterOfMass() Point {
	var total float64
	var acc Vector
	for i := range s.working {
		p := &s.working[i]
		acc = acc.Add(p.Position.Sub(Point{}).Scale(p.Mass))
		total += p.Mass
	}
	if total == 0 {
		return Point{}
	}
	return Point{}.Add(acc.Scale(1 / total))
}
