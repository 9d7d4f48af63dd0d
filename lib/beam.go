//----------------------------------------------------------------------
// This file is part of pointing-offset.
// Copyright (C) 2024-present Bernd Fix >Y<,  DO3YQ
//
// pointing-offset is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// pointing-offset is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package lib

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FWHMToSigma returns the standard deviation of a Gaussian with the
// given full-width-half-maximum beamwidth.
func FWHMToSigma(fwhm float64) float64 {
	return fwhm / 2.0 / math.Sqrt(2.0*math.Log(2.0))
}

// SigmaToFWHM returns the FWHM beamwidth of a Gaussian with the given
// standard deviation.
func SigmaToFWHM(sigma float64) float64 {
	return 2.0 * math.Sqrt(2.0*math.Log(2.0)) * sigma
}

// Beam is a 2-D axis-aligned Gaussian fit to a primary-beam response:
//
//	g(x) = h * exp(-1/2 * ((x1-mu1)^2/sigma1^2 + (x2-mu2)^2/sigma2^2))
type Beam struct {
	Centre        [2]float64 // mu, fitted beam centre (deg)
	Width         [2]float64 // fitted FWHM (deg)
	Height        float64    // fitted amplitude
	StdCentre     [2]float64 // 1-sigma uncertainty of Centre
	StdWidth      [2]float64 // 1-sigma uncertainty of Width
	StdHeight     float64    // 1-sigma uncertainty of Height
	ExpectedWidth [2]float64 // initial (expected) FWHM, retained for validation
	Valid         bool       // true iff the validity predicate held after Fit
}

// NewBeam constructs a beam model from an initial guess. widthFWHM is
// stored verbatim as both the starting and the expected width; callers
// holding a single scalar width broadcast it first with BroadcastWidth.
func NewBeam(centre [2]float64, widthFWHM [2]float64, height float64) *Beam {
	return &Beam{
		Centre:        centre,
		Width:         widthFWHM,
		Height:        height,
		ExpectedWidth: widthFWHM,
	}
}

// BroadcastWidth turns a scalar FWHM into a 2-element width vector.
func BroadcastWidth(w float64) [2]float64 {
	return [2]float64{w, w}
}

// gaussian evaluates g(x) for parameter vector p = (mu1, mu2, s1, s2, h).
func gaussian(p [5]float64, x [2]float64) float64 {
	mu1, mu2, s1, s2, h := p[0], p[1], p[2], p[3], p[4]
	d1 := x[0] - mu1
	d2 := x[1] - mu2
	return h * math.Exp(-0.5*(d1*d1/(s1*s1)+d2*d2/(s2*s2)))
}

// gaussianJacobianRow fills the partial derivatives of g(x) with respect
// to p = (mu1, mu2, s1, s2, h) at the given sample.
func gaussianJacobianRow(p [5]float64, x [2]float64) [5]float64 {
	mu1, mu2, s1, s2, h := p[0], p[1], p[2], p[3], p[4]
	d1 := x[0] - mu1
	d2 := x[1] - mu2
	g := h * math.Exp(-0.5*(d1*d1/(s1*s1)+d2*d2/(s2*s2)))
	var j [5]float64
	j[0] = g * d1 / (s1 * s1)
	j[1] = g * d2 / (s2 * s2)
	j[2] = g * d1 * d1 / (s1 * s1 * s1)
	j[3] = g * d2 * d2 / (s2 * s2 * s2)
	if h != 0 {
		j[4] = g / h
	}
	return j
}

// Fit performs a weighted Gauss-Newton least-squares fit of the beam
// pattern to (x, y) with per-sample standard deviation std_y (spec §4.3).
// A non-convergent fit does not return an error: it leaves is_valid
// false, per spec §4.3/§7 ("a non-convergent fit sets the beam's
// validity flag to false but does not abort the run").
func (b *Beam) Fit(x [][2]float64, y []float64, stdY []float64, threshWidth float64) error {
	n := len(x)
	if n != len(y) {
		return fmt.Errorf("pointing-offset: beam fit shape mismatch: len(x)=%d len(y)=%d", n, len(y))
	}
	if stdY == nil {
		stdY = make([]float64, n)
		for i := range stdY {
			stdY[i] = 1.0
		}
	}
	if len(stdY) != n {
		return fmt.Errorf("pointing-offset: beam fit shape mismatch: len(std_y)=%d len(y)=%d", len(stdY), n)
	}

	p := [5]float64{b.Centre[0], b.Centre[1], FWHMToSigma(b.Width[0]), FWHMToSigma(b.Width[1]), b.Height}
	if p[4] <= 0 {
		p[4] = 1
	}

	maxIter := Cfg.Fit.MaxIter
	minChange := Cfg.Fit.MinChange
	if maxIter <= 0 {
		maxIter = 50
	}
	if minChange <= 0 {
		minChange = 1e-8
	}

	jac := mat.NewDense(n, 5, nil)
	resid := mat.NewVecDense(n, nil)

	fillJacResid := func(p [5]float64) float64 {
		chi2 := 0.0
		for i := 0; i < n; i++ {
			row := gaussianJacobianRow(p, x[i])
			w := 1.0 / stdY[i]
			for k := 0; k < 5; k++ {
				jac.Set(i, k, w*row[k])
			}
			r := w * (y[i] - gaussian(p, x[i]))
			resid.SetVec(i, r)
			chi2 += r * r
		}
		return chi2
	}

	// Levenberg-Marquardt: Gauss-Newton with a damping term that backs
	// off toward gradient descent whenever a step fails to reduce chi^2.
	lambda := 1e-3
	chi2 := fillJacResid(p)
	converged := false
	for iter := 0; iter < maxIter; iter++ {
		var jtj mat.Dense
		jtj.Mul(jac.T(), jac)
		var jtr mat.VecDense
		jtr.MulVec(jac.T(), resid)

		accepted := false
		change := 0.0
		for attempt := 0; attempt < 20; attempt++ {
			var damped mat.Dense
			damped.CloneFrom(&jtj)
			for k := 0; k < 5; k++ {
				damped.Set(k, k, jtj.At(k, k)*(1+lambda)+eps)
			}

			var delta mat.VecDense
			if err := delta.SolveVec(&damped, &jtr); err != nil {
				lambda *= 10
				continue
			}

			trial := p
			for k := 0; k < 5; k++ {
				trial[k] += delta.AtVec(k)
			}
			trial[2] = math.Max(trial[2], eps)
			trial[3] = math.Max(trial[3], eps)

			trialChi2 := 0.0
			for i := 0; i < n; i++ {
				w := 1.0 / stdY[i]
				r := w * (y[i] - gaussian(trial, x[i]))
				trialChi2 += r * r
			}

			if trialChi2 <= chi2 {
				change = 0.0
				for k := 0; k < 5; k++ {
					d := trial[k] - p[k]
					if denom := math.Abs(trial[k]) + eps; math.Abs(d)/denom > change {
						change = math.Abs(d) / denom
					}
				}
				p = trial
				chi2 = trialChi2
				lambda = math.Max(lambda/10, 1e-12)
				accepted = true
				break
			}
			lambda *= 10
		}

		chi2 = fillJacResid(p)
		if !accepted || change < minChange {
			converged = true
			break
		}
	}

	var jtjFinal mat.Dense
	jtjFinal.Mul(jac.T(), jac)
	var jtjInv mat.Dense
	stdOK := jtjInv.Inverse(&jtjFinal) == nil

	b.Centre = [2]float64{p[0], p[1]}
	b.Width = [2]float64{SigmaToFWHM(p[2]), SigmaToFWHM(p[3])}
	b.Height = p[4]

	if stdOK {
		b.StdCentre = [2]float64{math.Sqrt(math.Abs(jtjInv.At(0, 0))), math.Sqrt(math.Abs(jtjInv.At(1, 1)))}
		// d(FWHM)/d(sigma) is the constant SigmaToFWHM(1); uncertainties scale linearly.
		fwhmPerSigma := SigmaToFWHM(1)
		b.StdWidth = [2]float64{
			fwhmPerSigma * math.Sqrt(math.Abs(jtjInv.At(2, 2))),
			fwhmPerSigma * math.Sqrt(math.Abs(jtjInv.At(3, 3))),
		}
		b.StdHeight = math.Sqrt(math.Abs(jtjInv.At(4, 4)))
	} else {
		b.StdCentre = [2]float64{math.NaN(), math.NaN()}
		b.StdWidth = [2]float64{math.NaN(), math.NaN()}
		b.StdHeight = math.NaN()
	}

	b.checkValid(threshWidth)
	if !converged {
		b.Valid = false
	}
	return nil
}

// checkValid applies the 3-clause validity predicate of spec §4.3.
func (b *Beam) checkValid(threshWidth float64) {
	finite := func(vs ...float64) bool {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
		return true
	}
	ok := finite(b.Centre[0], b.Centre[1], b.Width[0], b.Width[1], b.Height) &&
		finite(b.StdWidth[0], b.StdWidth[1])
	ok = ok && b.Height > 0
	for axis := 0; axis < 2 && ok; axis++ {
		if b.ExpectedWidth[axis] <= 0 {
			ok = false
			break
		}
		ratio := b.Width[axis] / b.ExpectedWidth[axis]
		if !(ratio > 0.9 && ratio < threshWidth) {
			ok = false
			break
		}
		if b.StdWidth[axis] <= 0 {
			ok = false
			break
		}
		snr := b.Width[axis] / b.StdWidth[axis]
		if !(snr > 0.0) {
			ok = false
			break
		}
	}
	b.Valid = ok
}
