package airbrakes_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAirbrakes(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Airbrakes Controller Suite")
}
