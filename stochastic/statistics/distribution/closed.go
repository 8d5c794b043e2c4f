// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package distribution

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// eulerGamma is the Euler-Mascheroni constant.
const eulerGamma = 0.5772156649015329

// gumbel is the right-skewed standard Gumbel distribution.
type gumbel struct{}

func (gumbel) cdf(z float64) float64      { return math.Exp(-math.Exp(-z)) }
func (gumbel) quantile(p float64) float64 { return -math.Log(-math.Log(p)) }
func (gumbel) mean() float64              { return eulerGamma }
func (gumbel) variance() float64          { return math.Pi * math.Pi / 6 }

// cauchy is the standard Cauchy distribution, its moments are undefined.
type cauchy struct{}

func (cauchy) cdf(z float64) float64      { return 0.5 + math.Atan(z)/math.Pi }
func (cauchy) quantile(p float64) float64 { return math.Tan(math.Pi * (p - 0.5)) }
func (cauchy) mean() float64              { return math.NaN() }
func (cauchy) variance() float64          { return math.NaN() }

// logistic is the standard logistic distribution.
type logistic struct{}

func (logistic) cdf(z float64) float64      { return 1 / (1 + math.Exp(-z)) }
func (logistic) quantile(p float64) float64 { return math.Log(p / (1 - p)) }
func (logistic) mean() float64              { return 0 }
func (logistic) variance() float64          { return math.Pi * math.Pi / 3 }

// rayleigh is the standard Rayleigh distribution.
type rayleigh struct{}

func (rayleigh) cdf(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return -math.Expm1(-z * z / 2)
}
func (rayleigh) quantile(p float64) float64 { return math.Sqrt(-2 * math.Log1p(-p)) }
func (rayleigh) mean() float64              { return math.Sqrt(math.Pi / 2) }
func (rayleigh) variance() float64          { return (4 - math.Pi) / 2 }

// levy is the standard Levy distribution, its moments are infinite.
type levy struct{}

func (levy) cdf(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return math.Erfc(1 / math.Sqrt(2*z))
}

func (levy) quantile(p float64) float64 {
	if p <= 0 {
		return 0
	}
	e := math.Erfcinv(p)
	return 1 / (2 * e * e)
}
func (levy) mean() float64     { return math.Inf(1) }
func (levy) variance() float64 { return math.Inf(1) }

// maxwell is the standard Maxwell-Boltzmann distribution.
type maxwell struct{}

func (maxwell) cdf(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return math.Erf(z/math.Sqrt2) - math.Sqrt(2/math.Pi)*z*math.Exp(-z*z/2)
}
func (m maxwell) quantile(p float64) float64 { return invert(m.cdf, p, 0) }
func (maxwell) mean() float64                { return 2 * math.Sqrt(2/math.Pi) }
func (maxwell) variance() float64            { return (3*math.Pi - 8) / math.Pi }

// pareto has density b/z^(b+1) for z >= 1.
type pareto struct{ b float64 }

func newPareto(shape []float64) (standard, error) {
	if err := positive("b", shape[0]); err != nil {
		return nil, err
	}
	return pareto{shape[0]}, nil
}

func (d pareto) cdf(z float64) float64 {
	if z <= 1 {
		return 0
	}
	return 1 - math.Pow(z, -d.b)
}
func (d pareto) quantile(p float64) float64 { return math.Pow(1-p, -1/d.b) }

func (d pareto) mean() float64 {
	if d.b <= 1 {
		return math.Inf(1)
	}
	return d.b / (d.b - 1)
}

func (d pareto) variance() float64 {
	if d.b <= 2 {
		return math.Inf(1)
	}
	return d.b / ((d.b - 1) * (d.b - 1) * (d.b - 2))
}

// weibull is the minimum Weibull distribution with shape c.
type weibull struct{ c float64 }

func newWeibull(shape []float64) (standard, error) {
	if err := positive("c", shape[0]); err != nil {
		return nil, err
	}
	return weibull{shape[0]}, nil
}

func (d weibull) cdf(z float64) float64 {
	if z <= 0 {
		return 0
	}
	return 1 - math.Exp(-math.Pow(z, d.c))
}
func (d weibull) quantile(p float64) float64 { return math.Pow(-math.Log1p(-p), 1/d.c) }
func (d weibull) mean() float64              { return math.Gamma(1 + 1/d.c) }

func (d weibull) variance() float64 {
	m := d.mean()
	return math.Gamma(1+2/d.c) - m*m
}

// inverseGaussian is the Wald distribution with mean mu and unit shape.
type inverseGaussian struct{ mu float64 }

func newInverseGaussian(shape []float64) (standard, error) {
	if err := positive("mu", shape[0]); err != nil {
		return nil, err
	}
	return inverseGaussian{shape[0]}, nil
}

func (d inverseGaussian) cdf(z float64) float64 {
	if z <= 0 {
		return 0
	}
	s := math.Sqrt(1 / z)
	a := distuv.UnitNormal.CDF(s * (z/d.mu - 1))
	b := distuv.UnitNormal.CDF(-s * (z/d.mu + 1))
	return a + math.Exp(2/d.mu)*b
}
func (d inverseGaussian) quantile(p float64) float64 { return invert(d.cdf, p, 0) }
func (d inverseGaussian) mean() float64              { return d.mu }
func (d inverseGaussian) variance() float64          { return d.mu * d.mu * d.mu }

// truncatedNormal is N(0,1) restricted to [a,b].
type truncatedNormal struct {
	a, b   float64
	fa, fb float64
}

func newTruncatedNormal(shape []float64) (standard, error) {
	a, b := shape[0], shape[1]
	if !(a < b) {
		return nil, errorsInvalid("truncation bounds must satisfy a < b (%v, %v)", a, b)
	}
	fa, fb := distuv.UnitNormal.CDF(a), distuv.UnitNormal.CDF(b)
	if !(fb > fa) {
		return nil, errorsInvalid("truncation interval [%v, %v] carries no mass", a, b)
	}
	return truncatedNormal{a: a, b: b, fa: fa, fb: fb}, nil
}

func (d truncatedNormal) cdf(z float64) float64 {
	switch {
	case z <= d.a:
		return 0
	case z >= d.b:
		return 1
	}
	return (distuv.UnitNormal.CDF(z) - d.fa) / (d.fb - d.fa)
}

func (d truncatedNormal) quantile(p float64) float64 {
	z := distuv.UnitNormal.Quantile(d.fa + p*(d.fb-d.fa))
	return math.Min(math.Max(z, d.a), d.b)
}

func (d truncatedNormal) mean() float64 {
	pa, pb := distuv.UnitNormal.Prob(d.a), distuv.UnitNormal.Prob(d.b)
	return (pa - pb) / (d.fb - d.fa)
}

func (d truncatedNormal) variance() float64 {
	pa, pb := distuv.UnitNormal.Prob(d.a), distuv.UnitNormal.Prob(d.b)
	z := d.fb - d.fa
	r := (pa - pb) / z
	return 1 + (d.a*pa-d.b*pb)/z - r*r
}
