package cmd

var names = map[int]string{}

var rpFactory = map[int]func() CommandRP{}

func register(c Command, name string, rp func() CommandRP) {
	names[c.OpCode()] = name
	if rp != nil {
		rpFactory[c.OpCode()] = rp
	}
}

func init() {
	register(&Disconnect{}, "Disconnect", nil)
	register(&SetEventMask{}, "Set Event Mask", func() CommandRP { return &SetEventMaskRP{} })
	register(&Reset{}, "Reset", func() CommandRP { return &ResetRP{} })
	register(&WriteLocalName{}, "Write Local Name", func() CommandRP { return &WriteLocalNameRP{} })
	register(&ReadLocalName{}, "Read Local Name", func() CommandRP { return &ReadLocalNameRP{} })
	register(&ReadLocalVersionInformation{}, "Read Local Version Information", func() CommandRP { return &ReadLocalVersionInformationRP{} })
	register(&ReadLocalSupportedCommands{}, "Read Local Supported Commands", func() CommandRP { return &ReadLocalSupportedCommandsRP{} })
	register(&ReadLocalSupportedFeatures{}, "Read Local Supported Features", func() CommandRP { return &ReadLocalSupportedFeaturesRP{} })
	register(&ReadBufferSize{}, "Read Buffer Size", func() CommandRP { return &ReadBufferSizeRP{} })
	register(&ReadBDADDR{}, "Read BD_ADDR", func() CommandRP { return &ReadBDADDRRP{} })
	register(&ReadLocalSupportedCodecs{}, "Read Local Supported Codecs", func() CommandRP { return &ReadLocalSupportedCodecsRP{} })
	register(&LESetEventMask{}, "LE Set Event Mask", func() CommandRP { return &LESetEventMaskRP{} })
	register(&LEReadBufferSize{}, "LE Read Buffer Size", func() CommandRP { return &LEReadBufferSizeRP{} })
	register(&LEReadLocalSupportedFeatures{}, "LE Read Local Supported Features", func() CommandRP { return &LEReadLocalSupportedFeaturesRP{} })
	register(&LESetAdvertisingParameters{}, "LE Set Advertising Parameters", func() CommandRP { return &LESetAdvertisingParametersRP{} })
	register(&LEReadAdvertisingChannelTxPower{}, "LE Read Advertising Channel Tx Power", func() CommandRP { return &LEReadAdvertisingChannelTxPowerRP{} })
	register(&LESetAdvertisingData{}, "LE Set Advertising Data", func() CommandRP { return &LESetAdvertisingDataRP{} })
	register(&LESetScanResponseData{}, "LE Set Scan Response Data", func() CommandRP { return &LESetScanResponseDataRP{} })
	register(&LESetAdvertiseEnable{}, "LE Set Advertise Enable", func() CommandRP { return &LESetAdvertiseEnableRP{} })
	register(&LESetScanParameters{}, "LE Set Scan Parameters", func() CommandRP { return &LESetScanParametersRP{} })
	register(&LESetScanEnable{}, "LE Set Scan Enable", func() CommandRP { return &LESetScanEnableRP{} })
}

// ReturnParameters returns an empty return parameter value for the command
// with opcode op, or nil when the opcode is unknown.
func ReturnParameters(op int) CommandRP {
	if f, ok := rpFactory[op]; ok {
		return f()
	}
	return nil
}
