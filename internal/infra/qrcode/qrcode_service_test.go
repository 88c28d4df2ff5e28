package qrcode

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name          string
		size          int
		level         string
		expectedLevel qrcode.RecoveryLevel
	}{
		{name: "low level", size: 256, level: "L", expectedLevel: qrcode.Low},
		{name: "medium level", size: 256, level: "M", expectedLevel: qrcode.Medium},
		{name: "high level", size: 256, level: "Q", expectedLevel: qrcode.High},
		{name: "highest level", size: 256, level: "H", expectedLevel: qrcode.Highest},
		{name: "unknown level defaults to medium", size: 256, level: "X", expectedLevel: qrcode.Medium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(tt.size, tt.level)
			require.NotNil(t, svc)

			impl, ok := svc.(*qrcodeService)
			require.True(t, ok)
			assert.Equal(t, tt.size, impl.size)
			assert.Equal(t, tt.expectedLevel, impl.errorCorrectionLevel)
		})
	}
}

func TestQRCodeService_GenerateOrderQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")
	orderID := uuid.New()

	pngBytes, err := svc.GenerateOrderQR(orderID)
	require.NoError(t, err)
	require.NotEmpty(t, pngBytes)

	// PNG magic bytes
	assert.Equal(t, byte(0x89), pngBytes[0])
	assert.Equal(t, byte(0x50), pngBytes[1])
	assert.Equal(t, byte(0x4E), pngBytes[2])
	assert.Equal(t, byte(0x47), pngBytes[3])
}

func TestQRCodeService_ParseOrderQR(t *testing.T) {
	svc := NewQRCodeService(256, "M")
	orderID := uuid.New()

	payload, err := json.Marshal(QRCodeData{
		OrderID: orderID.String(),
		Type:    "order_receipt",
	})
	require.NoError(t, err)

	parsedID, err := svc.ParseOrderQR(string(payload))
	require.NoError(t, err)
	assert.Equal(t, orderID, parsedID)
}

func TestQRCodeService_ParseOrderQR_InvalidJSON(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	_, err := svc.ParseOrderQR("not json at all")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal QR code data")
}

func TestQRCodeService_ParseOrderQR_InvalidType(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	payload := fmt.Sprintf(`{"order_id":%q,"type":"gift_card"}`, uuid.New())
	_, err := svc.ParseOrderQR(payload)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid QR code type")
}

func TestQRCodeService_ParseOrderQR_InvalidOrderID(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	_, err := svc.ParseOrderQR(`{"order_id":"not-a-uuid","type":"order_receipt"}`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse order ID")
}
