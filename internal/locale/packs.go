package locale

import "nftrelay/internal/events"

var builtin = []*Pack{english, indonesian, french, german, russian, japanese, chinese, spanish}

var english = &Pack{
	Code: "en",
	start: `🧔 <b>Welcome to BeardNFT Bot!</b>
Your personal assistant for tracking XRP NFTs in real time.

This bot notifies you instantly when your NFTs on XRP.Cafe are:

💰 Sold
🏷️ Listed
🤝 Offered
✨ Minted
🔥 Burned

You can:
• Track one or multiple NFT collections
• Get notifications in groups, channels, or DMs
• Choose your language preference

To get started, send /track with your collection id or simply send your XRP.Cafe collection link.

Need help? Send /help anytime.`,
	help: `ℹ️ <b>How to use BeardNFT Bot</b>
1️⃣ Use /track <code>&lt;collection_id or link&gt;</code>
2️⃣ Get real-time updates for sales, listings, offers, mints &amp; burns
3️⃣ Works in DMs, groups, and channels
4️⃣ See what you track with /list
5️⃣ Stop one collection with /stop <code>&lt;collection_id&gt;</code>, or everything with /stopall
6️⃣ Change language with /language <code>&lt;code&gt;</code> (en, id, fr, de, ru, ja, zh, es)`,
	trackStart:          "✅ Started tracking <b>%s</b>",
	alreadyTrack:        "⚠️ Already tracking <b>%s</b>",
	stop:                "🛑 All tracking stopped.",
	stopOne:             "🛑 Stopped tracking <b>%s</b>",
	notTracked:          "⚠️ You are not tracking <b>%s</b>",
	list:                "📋 Currently tracking:",
	noList:              "❌ You are not tracking any collection yet.",
	langSet:             "✅ Language set successfully.",
	unsupportedLanguage: "❌ Unsupported language code. Available: %s",
	invalidCollection:   "❌ Invalid collection id or link: %s",
	failure:             "⚠️ Something went wrong, please try again later.",
	viewOnExplorer:      "🔗 View on XRPSCAN",
	typeLabels: map[events.Type]string{
		events.TypeMint:    "MINT",
		events.TypeSale:    "SALE",
		events.TypeListing: "LISTING",
		events.TypeOffer:   "OFFER",
		events.TypeBurn:    "BURN",
		events.TypeUnknown: "EVENT",
	},
}

var indonesian = &Pack{
	Code: "id",
	start: `🧔 <b>Selamat datang di BeardNFT Bot!</b>
Asisten pribadi kamu untuk memantau NFT XRP secara langsung.

Bot ini memberi tahu kamu saat NFT di XRP.Cafe:

💰 Terjual
🏷️ Dilisting
🤝 Ditawar
✨ Dicetak
🔥 Dibakar

Kirim /track dengan ID koleksi atau tautan koleksi XRP.Cafe untuk memulai.`,
	help: `ℹ️ <b>Cara menggunakan BeardNFT Bot</b>
1️⃣ Gunakan /track <code>&lt;id_koleksi atau tautan&gt;</code>
2️⃣ Lihat koleksi yang dipantau dengan /list
3️⃣ Hentikan dengan /stop <code>&lt;id_koleksi&gt;</code> atau /stopall
4️⃣ Ganti bahasa dengan /language <code>&lt;kode&gt;</code> (en, id, fr, de, ru, ja, zh, es)`,
	trackStart:          "✅ Mulai memantau <b>%s</b>",
	alreadyTrack:        "⚠️ Sudah dipantau <b>%s</b>",
	stop:                "🛑 Semua pemantauan dihentikan.",
	stopOne:             "🛑 Berhenti memantau <b>%s</b>",
	notTracked:          "⚠️ Kamu tidak memantau <b>%s</b>",
	list:                "📋 Koleksi yang sedang dipantau:",
	noList:              "❌ Kamu belum memantau koleksi apa pun.",
	langSet:             "✅ Bahasa berhasil diubah.",
	unsupportedLanguage: "❌ Kode bahasa tidak didukung. Tersedia: %s",
	invalidCollection:   "❌ ID atau tautan koleksi tidak valid: %s",
	failure:             "⚠️ Terjadi kesalahan, silakan coba lagi nanti.",
	viewOnExplorer:      "🔗 Lihat di XRPSCAN",
	typeLabels: map[events.Type]string{
		events.TypeMint:    "CETAK",
		events.TypeSale:    "PENJUALAN",
		events.TypeListing: "LISTING",
		events.TypeOffer:   "PENAWARAN",
		events.TypeBurn:    "BAKAR",
		events.TypeUnknown: "AKTIVITAS",
	},
}

var french = &Pack{
	Code: "fr",
	start: `🧔 <b>Bienvenue sur BeardNFT Bot!</b>
Votre assistant personnel pour suivre les NFT XRP en temps réel.

Le bot vous prévient dès que vos NFT sur XRP.Cafe sont vendus, listés, reçoivent une offre, sont créés ou brûlés.

Envoyez /track avec l'identifiant de la collection ou son lien XRP.Cafe pour commencer.`,
	help: `ℹ️ <b>Comment utiliser BeardNFT Bot</b>
1️⃣ Utilisez /track <code>&lt;id_collection ou lien&gt;</code>
2️⃣ Affichez vos suivis avec /list
3️⃣ Arrêtez avec /stop <code>&lt;id_collection&gt;</code> ou /stopall
4️⃣ Changez de langue avec /language <code>&lt;code&gt;</code> (en, id, fr, de, ru, ja, zh, es)`,
	trackStart:          "✅ Suivi de <b>%s</b> démarré",
	alreadyTrack:        "⚠️ <b>%s</b> est déjà suivi.",
	stop:                "🛑 Tous les suivis ont été arrêtés.",
	stopOne:             "🛑 Suivi de <b>%s</b> arrêté",
	notTracked:          "⚠️ <b>%s</b> n'est pas suivi.",
	list:                "📋 Collections suivies:",
	noList:              "❌ Aucune collection suivie.",
	langSet:             "✅ Langue modifiée avec succès.",
	unsupportedLanguage: "❌ Code de langue non pris en charge. Disponibles: %s",
	invalidCollection:   "❌ Identifiant ou lien de collection invalide: %s",
	failure:             "⚠️ Une erreur est survenue, réessayez plus tard.",
	viewOnExplorer:      "🔗 Voir sur XRPSCAN",
	typeLabels: map[events.Type]string{
		events.TypeMint:    "CRÉATION",
		events.TypeSale:    "VENTE",
		events.TypeListing: "MISE EN VENTE",
		events.TypeOffer:   "OFFRE",
		events.TypeBurn:    "DESTRUCTION",
		events.TypeUnknown: "ÉVÉNEMENT",
	},
}

var german = &Pack{
	Code: "de",
	start: `🧔 <b>Willkommen beim BeardNFT Bot!</b>
Dein persönlicher Assistent, um XRP NFTs in Echtzeit zu verfolgen.

Der Bot benachrichtigt dich, sobald deine NFTs auf XRP.Cafe verkauft, gelistet, angeboten, geprägt oder verbrannt werden.

Sende /track mit der Sammlungs-ID oder dem XRP.Cafe Link, um zu starten.`,
	help: `ℹ️ <b>So verwendest du den BeardNFT Bot</b>
1️⃣ Nutze /track <code>&lt;Sammlungs-ID oder Link&gt;</code>
2️⃣ Zeige deine Sammlungen mit /list
3️⃣ Beende mit /stop <code>&lt;Sammlungs-ID&gt;</code> oder /stopall
4️⃣ Ändere die Sprache mit /language <code>&lt;Code&gt;</code> (en, id, fr, de, ru, ja, zh, es)`,
	trackStart:          "✅ Überwachung von <b>%s</b> gestartet",
	alreadyTrack:        "⚠️ <b>%s</b> wird bereits überwacht.",
	stop:                "🛑 Alle Überwachungen gestoppt.",
	stopOne:             "🛑 Überwachung von <b>%s</b> gestoppt",
	notTracked:          "⚠️ <b>%s</b> wird nicht überwacht.",
	list:                "📋 Aktuell überwachte Sammlungen:",
	noList:              "❌ Keine Sammlungen werden derzeit überwacht.",
	langSet:             "✅ Sprache erfolgreich geändert.",
	unsupportedLanguage: "❌ Nicht unterstützter Sprachcode. Verfügbar: %s",
	invalidCollection:   "❌ Ungültige Sammlungs-ID oder ungültiger Link: %s",
	failure:             "⚠️ Etwas ist schiefgelaufen, bitte versuche es später erneut.",
	viewOnExplorer:      "🔗 Auf XRPSCAN ansehen",
	typeLabels: map[events.Type]string{
		events.TypeMint:    "PRÄGUNG",
		events.TypeSale:    "VERKAUF",
		events.TypeListing: "LISTUNG",
		events.TypeOffer:   "ANGEBOT",
		events.TypeBurn:    "VERBRENNUNG",
		events.TypeUnknown: "EREIGNIS",
	},
}

var russian = &Pack{
	Code: "ru",
	start: `🧔 <b>Добро пожаловать в BeardNFT Bot!</b>
Ваш личный помощник для отслеживания XRP NFT в реальном времени.

Бот сообщит, когда ваши NFT на XRP.Cafe продаются, выставляются, получают предложения, создаются или сжигаются.

Отправьте /track с ID коллекции или ссылкой XRP.Cafe, чтобы начать.`,
	help: `ℹ️ <b>Как использовать BeardNFT Bot</b>
1️⃣ Используйте /track <code>&lt;id_коллекции или ссылка&gt;</code>
2️⃣ Список отслеживаемого: /list
3️⃣ Остановить: /stop <code>&lt;id_коллекции&gt;</code> или /stopall
4️⃣ Сменить язык: /language <code>&lt;код&gt;</code> (en, id, fr, de, ru, ja, zh, es)`,
	trackStart:          "✅ Отслеживание <b>%s</b> начато",
	alreadyTrack:        "⚠️ <b>%s</b> уже отслеживается.",
	stop:                "🛑 Все отслеживания остановлены.",
	stopOne:             "🛑 Отслеживание <b>%s</b> остановлено",
	notTracked:          "⚠️ <b>%s</b> не отслеживается.",
	list:                "📋 Отслеживаемые коллекции:",
	noList:              "❌ Нет отслеживаемых коллекций.",
	langSet:             "✅ Язык успешно изменен.",
	unsupportedLanguage: "❌ Неподдерживаемый код языка. Доступны: %s",
	invalidCollection:   "❌ Неверный ID или ссылка коллекции: %s",
	failure:             "⚠️ Что-то пошло не так, попробуйте позже.",
	viewOnExplorer:      "🔗 Открыть в XRPSCAN",
	typeLabels: map[events.Type]string{
		events.TypeMint:    "МИНТ",
		events.TypeSale:    "ПРОДАЖА",
		events.TypeListing: "ЛИСТИНГ",
		events.TypeOffer:   "ПРЕДЛОЖЕНИЕ",
		events.TypeBurn:    "СЖИГАНИЕ",
		events.TypeUnknown: "СОБЫТИЕ",
	},
}

var japanese = &Pack{
	Code: "ja",
	start: `🧔 <b>BeardNFT Botへようこそ！</b>
XRP NFTをリアルタイムで追跡するアシスタントです。

XRP.Cafe上のNFTが販売、出品、オファー、ミント、バーンされるとすぐに通知します。

/track にコレクションIDまたはXRP.Cafeのリンクを付けて送信してください。`,
	help: `ℹ️ <b>BeardNFT Botの使い方</b>
1️⃣ /track <code>&lt;コレクションIDまたはリンク&gt;</code>
2️⃣ /list で追跡中のコレクションを表示
3️⃣ /stop <code>&lt;コレクションID&gt;</code> または /stopall で停止
4️⃣ /language <code>&lt;コード&gt;</code> で言語を変更 (en, id, fr, de, ru, ja, zh, es)`,
	trackStart:          "✅ <b>%s</b> の追跡を開始しました",
	alreadyTrack:        "⚠️ <b>%s</b> はすでに追跡されています。",
	stop:                "🛑 すべての追跡を停止しました。",
	stopOne:             "🛑 <b>%s</b> の追跡を停止しました",
	notTracked:          "⚠️ <b>%s</b> は追跡されていません。",
	list:                "📋 現在追跡中のコレクション:",
	noList:              "❌ 追跡中のコレクションはありません。",
	langSet:             "✅ 言語が変更されました。",
	unsupportedLanguage: "❌ サポートされていない言語コードです。利用可能: %s",
	invalidCollection:   "❌ 無効なコレクションIDまたはリンクです: %s",
	failure:             "⚠️ エラーが発生しました。後でもう一度お試しください。",
	viewOnExplorer:      "🔗 XRPSCANで見る",
	typeLabels: map[events.Type]string{
		events.TypeMint:    "ミント",
		events.TypeSale:    "販売",
		events.TypeListing: "出品",
		events.TypeOffer:   "オファー",
		events.TypeBurn:    "バーン",
		events.TypeUnknown: "イベント",
	},
}

var chinese = &Pack{
	Code: "zh",
	start: `🧔 <b>欢迎使用BeardNFT Bot！</b>
实时跟踪XRP NFT的私人助手。

当您在XRP.Cafe上的NFT被出售、挂单、报价、铸造或销毁时，机器人会立即通知您。

发送 /track 加上收藏ID或XRP.Cafe链接即可开始。`,
	help: `ℹ️ <b>如何使用BeardNFT Bot</b>
1️⃣ 使用 /track <code>&lt;收藏ID或链接&gt;</code>
2️⃣ 使用 /list 查看正在跟踪的收藏
3️⃣ 使用 /stop <code>&lt;收藏ID&gt;</code> 或 /stopall 停止
4️⃣ 使用 /language <code>&lt;代码&gt;</code> 切换语言 (en, id, fr, de, ru, ja, zh, es)`,
	trackStart:          "✅ 开始跟踪 <b>%s</b>",
	alreadyTrack:        "⚠️ <b>%s</b> 已在跟踪中。",
	stop:                "🛑 已停止所有跟踪。",
	stopOne:             "🛑 已停止跟踪 <b>%s</b>",
	notTracked:          "⚠️ 未跟踪 <b>%s</b>。",
	list:                "📋 当前跟踪的收藏:",
	noList:              "❌ 没有正在跟踪的收藏。",
	langSet:             "✅ 语言设置成功。",
	unsupportedLanguage: "❌ 不支持的语言代码。可用: %s",
	invalidCollection:   "❌ 无效的收藏ID或链接: %s",
	failure:             "⚠️ 出现错误，请稍后再试。",
	viewOnExplorer:      "🔗 在XRPSCAN上查看",
	typeLabels: map[events.Type]string{
		events.TypeMint:    "铸造",
		events.TypeSale:    "出售",
		events.TypeListing: "挂单",
		events.TypeOffer:   "报价",
		events.TypeBurn:    "销毁",
		events.TypeUnknown: "事件",
	},
}

var spanish = &Pack{
	Code: "es",
	start: `🧔 <b>¡Bienvenido a BeardNFT Bot!</b>
Tu asistente personal para seguir NFT de XRP en tiempo real.

El bot te avisa cuando tus NFT en XRP.Cafe se venden, se listan, reciben ofertas, se acuñan o se queman.

Envía /track con el id de la colección o su enlace de XRP.Cafe para empezar.`,
	help: `ℹ️ <b>Cómo usar BeardNFT Bot</b>
1️⃣ Usa /track <code>&lt;id_colección o enlace&gt;</code>
2️⃣ Consulta tus colecciones con /list
3️⃣ Detén con /stop <code>&lt;id_colección&gt;</code> o /stopall
4️⃣ Cambia el idioma con /language <code>&lt;código&gt;</code> (en, id, fr, de, ru, ja, zh, es)`,
	trackStart:          "✅ Comenzó el seguimiento de <b>%s</b>",
	alreadyTrack:        "⚠️ <b>%s</b> ya está siendo seguido.",
	stop:                "🛑 Se detuvo todo el seguimiento.",
	stopOne:             "🛑 Se detuvo el seguimiento de <b>%s</b>",
	notTracked:          "⚠️ <b>%s</b> no está siendo seguido.",
	list:                "📋 Colecciones seguidas:",
	noList:              "❌ No estás siguiendo ninguna colección.",
	langSet:             "✅ Idioma configurado correctamente.",
	unsupportedLanguage: "❌ Código de idioma no compatible. Disponibles: %s",
	invalidCollection:   "❌ Id o enlace de colección no válido: %s",
	failure:             "⚠️ Algo salió mal, inténtalo de nuevo más tarde.",
	viewOnExplorer:      "🔗 Ver en XRPSCAN",
	typeLabels: map[events.Type]string{
		events.TypeMint:    "ACUÑACIÓN",
		events.TypeSale:    "VENTA",
		events.TypeListing: "LISTADO",
		events.TypeOffer:   "OFERTA",
		events.TypeBurn:    "QUEMA",
		events.TypeUnknown: "EVENTO",
	},
}
