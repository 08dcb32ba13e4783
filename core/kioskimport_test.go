package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKioskCSV(t *testing.T) {
	csvData := `code,name,city,state,product,lat,lon,radius
1042,Plaza Satelite,Naucalpan,Mexico,telecom,19.5104,-99.2337,200
3310,Centro Historico,CDMX,CDMX,energia,19.4326,-99.1332,
ABCD,Bad Code,CDMX,CDMX,telecom,19.4,-99.1,
5511,Bad Lat,CDMX,CDMX,telecom,north,-99.1,`

	kiosks, rowErrors, err := ParseKioskCSV(strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Len(t, kiosks, 2)
	assert.Len(t, rowErrors, 2)

	assert.Equal(t, "1042", kiosks[0].Code)
	assert.Equal(t, 200.0, kiosks[0].RadiusMeters)
	assert.True(t, kiosks[0].Active)

	// Empty radius means "use the default"; stored as zero.
	assert.Zero(t, kiosks[1].RadiusMeters)

	assert.Contains(t, rowErrors[0], "invalid kiosk code")
	assert.Contains(t, rowErrors[1], "invalid latitude")
}
