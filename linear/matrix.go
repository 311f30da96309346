// Copyright 2026 The vkview Authors. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// M4 is a column-major 4x4 matrix of float32.
// m[i][j] is the element of column i and row j.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	var n M4
	for i := range n {
		for j := range n {
			for k := range n {
				n[i][j] += l[k][j] * r[i][k]
			}
		}
	}
	*m = n
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	for i := range m {
		m[i][i] = n[i][i]
		for j := i + 1; j < len(m); j++ {
			m[i][j], m[j][i] = n[j][i], n[i][j]
		}
	}
}

// Invert sets m to contain the inverse of n.
func (m *M4) Invert(n *M4) {
	s0 := n[0][0]*n[1][1] - n[0][1]*n[1][0]
	s1 := n[0][0]*n[1][2] - n[0][2]*n[1][0]
	s2 := n[0][0]*n[1][3] - n[0][3]*n[1][0]
	s3 := n[0][1]*n[1][2] - n[0][2]*n[1][1]
	s4 := n[0][1]*n[1][3] - n[0][3]*n[1][1]
	s5 := n[0][2]*n[1][3] - n[0][3]*n[1][2]
	c0 := n[2][0]*n[3][1] - n[2][1]*n[3][0]
	c1 := n[2][0]*n[3][2] - n[2][2]*n[3][0]
	c2 := n[2][0]*n[3][3] - n[2][3]*n[3][0]
	c3 := n[2][1]*n[3][2] - n[2][2]*n[3][1]
	c4 := n[2][1]*n[3][3] - n[2][3]*n[3][1]
	c5 := n[2][2]*n[3][3] - n[2][3]*n[3][2]
	idet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)
	var r M4
	r[0][0] = (c5*n[1][1] - c4*n[1][2] + c3*n[1][3]) * idet
	r[0][1] = (-c5*n[0][1] + c4*n[0][2] - c3*n[0][3]) * idet
	r[0][2] = (s5*n[3][1] - s4*n[3][2] + s3*n[3][3]) * idet
	r[0][3] = (-s5*n[2][1] + s4*n[2][2] - s3*n[2][3]) * idet
	r[1][0] = (-c5*n[1][0] + c2*n[1][2] - c1*n[1][3]) * idet
	r[1][1] = (c5*n[0][0] - c2*n[0][2] + c1*n[0][3]) * idet
	r[1][2] = (-s5*n[3][0] + s2*n[3][2] - s1*n[3][3]) * idet
	r[1][3] = (s5*n[2][0] - s2*n[2][2] + s1*n[2][3]) * idet
	r[2][0] = (c4*n[1][0] - c2*n[1][1] + c0*n[1][3]) * idet
	r[2][1] = (-c4*n[0][0] + c2*n[0][1] - c0*n[0][3]) * idet
	r[2][2] = (s4*n[3][0] - s2*n[3][1] + s0*n[3][3]) * idet
	r[2][3] = (-s4*n[2][0] + s2*n[2][1] - s0*n[2][3]) * idet
	r[3][0] = (-c3*n[1][0] + c1*n[1][1] - c0*n[1][2]) * idet
	r[3][1] = (c3*n[0][0] - c1*n[0][1] + c0*n[0][2]) * idet
	r[3][2] = (-s3*n[3][0] + s1*n[3][1] - s0*n[3][2]) * idet
	r[3][3] = (s3*n[2][0] - s1*n[2][1] + s0*n[2][2]) * idet
	*m = r
}

// Translate sets m to contain a translation matrix.
func (m *M4) Translate(x, y, z float32) {
	m.I()
	m[3] = V4{x, y, z, 1}
}

// Scale sets m to contain a scale matrix.
func (m *M4) Scale(x, y, z float32) {
	*m = M4{{x}, {1: y}, {2: z}, {3: 1}}
}

// Rotate sets m to contain a rotation of angle radians
// around axis. The axis need not be normalized.
func (m *M4) Rotate(angle float32, axis *V3) {
	var a V3
	a.Norm(axis)
	s, c := math32.Sincos(angle)
	var t V3
	t.Scale(1-c, &a)
	*m = M4{
		{c + t[0]*a[0], t[0]*a[1] + s*a[2], t[0]*a[2] - s*a[1], 0},
		{t[1]*a[0] - s*a[2], c + t[1]*a[1], t[1]*a[2] + s*a[0], 0},
		{t[2]*a[0] + s*a[1], t[2]*a[1] - s*a[0], c + t[2]*a[2], 0},
		{0, 0, 0, 1},
	}
}

// LookAtLH sets m to contain a left-handed view matrix.
// The view looks from eye towards center, with +z
// pointing into the screen.
func (m *M4) LookAtLH(eye, center, up *V3) {
	var f, s, u V3
	f.Sub(center, eye)
	f.Norm(&f)
	s.Cross(up, &f)
	s.Norm(&s)
	u.Cross(&f, &s)
	*m = M4{
		{s[0], u[0], f[0], 0},
		{s[1], u[1], f[1], 0},
		{s[2], u[2], f[2], 0},
		{-s.Dot(eye), -u.Dot(eye), -f.Dot(eye), 1},
	}
}

// PerspectiveLH sets m to contain a left-handed perspective
// projection with a vertical field of view of fovy radians.
// Depth is mapped to [0, 1].
func (m *M4) PerspectiveLH(fovy, width, height, znear, zfar float32) {
	s, c := math32.Sincos(0.5 * fovy)
	h := c / s
	w := h * height / width
	*m = M4{
		{0: w},
		{1: h},
		{2: zfar / (zfar - znear), 3: 1},
		{2: -(zfar * znear) / (zfar - znear)},
	}
}
