package tcs3471

// Address is the fixed 7-bit I2C address of the TCS3471x family
const Address = 0x29

// Command register bits
const (
	CMD_BIT       = 0x80 // select command register
	CMD_AUTO_INC  = 0x20 // auto-increment protocol transaction
	CMD_SPECIAL   = 0x60 // special function
	CLEAR_INT_SPF = 0x06 // special function: clear RGBC interrupt
)

// Registers
const (
	REG_ENABLE  = 0x00
	REG_ATIME   = 0x01
	REG_WTIME   = 0x03
	REG_AILTL   = 0x04
	REG_AILTH   = 0x05
	REG_AIHTL   = 0x06
	REG_AIHTH   = 0x07
	REG_PERS    = 0x0C
	REG_CONFIG  = 0x0D
	REG_CONTROL = 0x0F
	REG_ID      = 0x12
	REG_STATUS  = 0x13
	REG_CDATAL  = 0x14
)

// ENABLE register bits
const (
	ENABLE_PON  = 0x01
	ENABLE_AEN  = 0x02
	ENABLE_WEN  = 0x08
	ENABLE_AIEN = 0x10
)

// Device IDs reported in REG_ID
const (
	ID_TCS34711 = 0x14 // TCS34711 and TCS34715
	ID_TCS34713 = 0x1D // TCS34713 and TCS34717
)
