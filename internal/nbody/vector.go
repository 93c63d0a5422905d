package nbody

import "math"

// Vector is a 2D position, velocity or force
type Vector struct {
	X, Y float64
}

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Scale(k float64) Vector { return Vector{v.X * k, v.Y * k} }
func (v Vector) Div(k float64) Vector { return Vector{v.X / k, v.Y / k} }
func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vector) Norm2() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vector) Norm() float64 { return math.Sqrt(v.Norm2()) }

// Normalized returns the unit vector, or the zero vector unchanged
func (v Vector) Normalized() Vector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Div(n)
}
